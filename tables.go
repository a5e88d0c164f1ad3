package pt2go

import "math"

// Fixed-point and lookup tables taken directly from the ProTracker 2.3D
// replayer. None of these are derived or approximated at runtime; they are
// reproduced bit-for-bit from the reference implementation.

const (
	amigaPALXtalHz = 28375160
	paulaPALClock  = amigaPALXtalHz / 8  // 3546895 Hz
	ciaPALClock    = amigaPALXtalHz / 40 // 709379 Hz

	maxSampleLen = 0xFFFF * 2 // 128 KiB, the largest loop PT2 will extend to

	amigaVoices = 4

	initialDitherSeed = 0x12345000

	blepZC  = 16 // zero-crossings
	blepOS  = 16 // oversampling factor
	blepSP  = 16 // step between table taps
	blepNS  = blepZC * blepOS / blepSP // internal quality, samples of history kept (16)
	blepRNS = 31                       // ring buffer size (next power of two above blepNS, minus one)

	denormalOffset = 1e-10

	defaultStereoSep = 25
	defaultMasterVol = 256

	mixBufSamples = 4096 // largest block mixAudio renders in one call
)

// arpTickTable selects which of the three arpeggio offsets (0, x, y) to use
// on a given tick of the replayer's speed counter; the 0, 1, 2 cycle repeats
// across all 32 possible counter values.
var arpTickTable = [32]uint8{
	0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2,
	0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2,
	0, 1,
}

// funkTable holds the per-speed increments for the EFx "funk it" effect,
// which periodically inverts bytes of a looped sample to produce a coarse
// Karplus-Strong-like buzz.
var funkTable = [16]uint8{
	0x00, 0x05, 0x06, 0x07, 0x08, 0x0a, 0x0b, 0x0d,
	0x10, 0x13, 0x16, 0x1a, 0x20, 0x2b, 0x40, 0x80,
}

// vibratoTable is a single quarter-sine-derived waveform shared by both the
// vibrato (4xx/6xx) and tremolo (7xx) sine waveforms.
var vibratoTable = [32]uint8{
	0x00, 0x18, 0x31, 0x4a, 0x61, 0x78, 0x8d, 0xa1,
	0xb4, 0xc5, 0xd4, 0xe0, 0xeb, 0xf4, 0xfa, 0xfd,
	0xff, 0xfd, 0xfa, 0xf4, 0xeb, 0xe0, 0xd4, 0xc5,
	0xb4, 0xa1, 0x8d, 0x78, 0x61, 0x4a, 0x31, 0x18,
}

// periodTable holds 16 finetune rows of 37 Amiga periods each (the last
// entry of each row is the sentinel 0 marking the end of the note range),
// followed by 15 overflow words. Those overflow words are not periods: they
// are the contents of the two tables that follow the period table in the
// original ProTracker 2.3D binary (CursorPosTable and UnshiftedKeymap).
// Finetune -1 (encoded as finetune index 15, the last row) arpeggios that run
// off the end of their period row read into this overflow region, and PT2's replayer
// faithfully reproduces whatever garbage values land there.
var periodTable = [37*16 + 15]int16{
	856, 808, 762, 720, 678, 640, 604, 570, 538, 508, 480, 453,
	428, 404, 381, 360, 339, 320, 302, 285, 269, 254, 240, 226,
	214, 202, 190, 180, 170, 160, 151, 143, 135, 127, 120, 113,
	0, 850, 802, 757, 715, 674, 637, 601, 567, 535, 505, 477,
	450, 425, 401, 379, 357, 337, 318, 300, 284, 268, 253, 239,
	225, 213, 201, 189, 179, 169, 159, 150, 142, 134, 126, 119,
	113, 0, 844, 796, 752, 709, 670, 632, 597, 563, 532, 502,
	474, 447, 422, 398, 376, 355, 335, 316, 298, 282, 266, 251,
	237, 224, 211, 199, 188, 177, 167, 158, 149, 141, 133, 125,
	118, 112, 0, 838, 791, 746, 704, 665, 628, 592, 559, 528,
	498, 470, 444, 419, 395, 373, 352, 332, 314, 296, 280, 264,
	249, 235, 222, 209, 198, 187, 176, 166, 157, 148, 140, 132,
	125, 118, 111, 0, 832, 785, 741, 699, 660, 623, 588, 555,
	524, 495, 467, 441, 416, 392, 370, 350, 330, 312, 294, 278,
	262, 247, 233, 220, 208, 196, 185, 175, 165, 156, 147, 139,
	131, 124, 117, 110, 0, 826, 779, 736, 694, 655, 619, 584,
	551, 520, 491, 463, 437, 413, 390, 368, 347, 328, 309, 292,
	276, 260, 245, 232, 219, 206, 195, 184, 174, 164, 155, 146,
	138, 130, 123, 116, 109, 0, 820, 774, 730, 689, 651, 614,
	580, 547, 516, 487, 460, 434, 410, 387, 365, 345, 325, 307,
	290, 274, 258, 244, 230, 217, 205, 193, 183, 172, 163, 154,
	145, 137, 129, 122, 115, 109, 0, 814, 768, 725, 684, 646,
	610, 575, 543, 513, 484, 457, 431, 407, 384, 363, 342, 323,
	305, 288, 272, 256, 242, 228, 216, 204, 192, 181, 171, 161,
	152, 144, 136, 128, 121, 114, 108, 0, 907, 856, 808, 762,
	720, 678, 640, 604, 570, 538, 508, 480, 453, 428, 404, 381,
	360, 339, 320, 302, 285, 269, 254, 240, 226, 214, 202, 190,
	180, 170, 160, 151, 143, 135, 127, 120, 0, 900, 850, 802,
	757, 715, 675, 636, 601, 567, 535, 505, 477, 450, 425, 401,
	379, 357, 337, 318, 300, 284, 268, 253, 238, 225, 212, 200,
	189, 179, 169, 159, 150, 142, 134, 126, 119, 0, 894, 844,
	796, 752, 709, 670, 632, 597, 563, 532, 502, 474, 447, 422,
	398, 376, 355, 335, 316, 298, 282, 266, 251, 237, 223, 211,
	199, 188, 177, 167, 158, 149, 141, 133, 125, 118, 0, 887,
	838, 791, 746, 704, 665, 628, 592, 559, 528, 498, 470, 444,
	419, 395, 373, 352, 332, 314, 296, 280, 264, 249, 235, 222,
	209, 198, 187, 176, 166, 157, 148, 140, 132, 125, 118, 0,
	881, 832, 785, 741, 699, 660, 623, 588, 555, 524, 494, 467,
	441, 416, 392, 370, 350, 330, 312, 294, 278, 262, 247, 233,
	220, 208, 196, 185, 175, 165, 156, 147, 139, 131, 123, 117,
	0, 875, 826, 779, 736, 694, 655, 619, 584, 551, 520, 491,
	463, 437, 413, 390, 368, 347, 328, 309, 292, 276, 260, 245,
	232, 219, 206, 195, 184, 174, 164, 155, 146, 138, 130, 123,
	116, 0, 868, 820, 774, 730, 689, 651, 614, 580, 547, 516,
	487, 460, 434, 410, 387, 365, 345, 325, 307, 290, 274, 258,
	244, 230, 217, 205, 193, 183, 172, 163, 154, 145, 137, 129,
	122, 115, 0, 862, 814, 768, 725, 684, 646, 610, 575, 543,
	513, 484, 457, 431, 407, 384, 363, 342, 323, 305, 288, 272,
	256, 242, 228, 216, 203, 192, 181, 171, 161, 152, 144, 136,
	128, 121, 114, 0, 774, 1800, 2314, 3087, 4113, 4627, 5400, 6426,
	6940, 7713, 8739, 9253, 24625, 12851, 13365,
}

// minblepRaw holds the 257 minBLEP table entries as their raw IEEE-754 bit
// patterns. They must be reinterpreted with math.Float64frombits, never
// re-derived from a decimal literal: the low bits of these constants were
// computed offline to minimize aliasing and a decimal round-trip would not
// reproduce them exactly.
var minblepRaw = [257]uint64{
	0x3ff000320c7e95a6, 0x3ff00049be220fd5, 0x3ff0001b92a41aca, 0x3fefff4425aa9724,
	0x3feffdabdf6cf05c, 0x3feffb5af233ef1a, 0x3feff837e2ae85f3, 0x3feff4217b80e938,
	0x3fefeeeceb4e0444, 0x3fefe863a8358b5f, 0x3fefe04126292670, 0x3fefd63072a0d592,
	0x3fefc9c9cd36f56f, 0x3fefba90594bd8c3, 0x3fefa7f008ba9f13, 0x3fef913be2a0e0e2,
	0x3fef75accb01a327, 0x3fef5460f06a4e8f, 0x3fef2c5c0389bd3c, 0x3feefc8859bf6bcb,
	0x3feec3b916fd8d19, 0x3fee80ad74f0ad16, 0x3fee32153552e2c7, 0x3fedd69643cb9778,
	0x3fed6cd380ffa864, 0x3fecf374a4d2961a, 0x3fec692f19b34e54, 0x3febcccfa695dd5c,
	0x3feb1d44b168764a, 0x3fea59a8d8e4527f, 0x3fe9814d9b10a9a3, 0x3fe893c5b62135f2,
	0x3fe790eeebf9dabd, 0x3fe678facdee27ff, 0x3fe54c763699791a, 0x3fe40c4f1b1eb7a3,
	0x3fe2b9d863d4e0f3, 0x3fe156cb86586b0b, 0x3fdfca8f5005b828, 0x3fdccf9c3f455dac,
	0x3fd9c2787f20d06e, 0x3fd6a984cad0f3e5, 0x3fd38bb0c452732e, 0x3fd0705ec7135366,
	0x3fcabe86754e238f, 0x3fc4c0801a6e9a04, 0x3fbdecf490c5ea17, 0x3fb2dfface9ce44b,
	0x3fa0efd4449f4620, 0xbf72f4a65e22806d, 0xbfa3f872d761f927, 0xbfb1d89f0fd31f7c,
	0xbfb8b1ea652ec270, 0xbfbe79b82a37c92d, 0xbfc1931b697e685e, 0xbfc359383d4c8ada,
	0xbfc48f3bff81b06b, 0xbfc537bba8d6b15c, 0xbfc557cef2168326, 0xbfc4f6f781b3347a,
	0xbfc41ef872f0e009, 0xbfc2db9f119d54d3, 0xbfc13a7e196cb44f, 0xbfbe953a67843504,
	0xbfba383d9c597e74, 0xbfb57fbd67ad55d6, 0xbfb08e18234e5cb3, 0xbfa70b06d699ffd1,
	0xbf9a1cfb65370184, 0xbf7b2ceb901d2067, 0x3f86d5de2c267c78, 0x3f9c1d9ef73f384d,
	0x3fa579c530950503, 0x3fabd1e5fff9b1d0, 0x3fb07dcdc3a4fb5b, 0x3fb2724a856eec1b,
	0x3fb3c1f7199fc822, 0x3fb46d0979f5043b, 0x3fb47831387e0110, 0x3fb3ec4a58a3d527,
	0x3fb2d5f45f8889b3, 0x3fb145113e25b749, 0x3fae9860d18779bc, 0x3fa9ffd5f5ab96ea,
	0x3fa4ec6c4f47777e, 0x3f9f16c5b2604c3a, 0x3f9413d801124db7, 0x3f824f668cbb5bdf,
	0xbf55b3fa2ee30d66, 0xbf86541863b38183, 0xbf94031bbbd551de, 0xbf9bafc27dc5e769,
	0xbfa102b3683c57ec, 0xbfa3731e608cc6e4, 0xbfa520c9f5b5debd, 0xbfa609dc89be6ece,
	0xbfa632b83bc5f52f, 0xbfa5a58885841ad4, 0xbfa471a5d2ff02f3, 0xbfa2aad5cd0377c7,
	0xbfa0686ffe4b9b05, 0xbf9b88de413acb69, 0xbf95b4ef6d93f1c5, 0xbf8f1b72860b27fa,
	0xbf8296a865cdf612, 0xbf691beedabe928b, 0x3f65c04e6af9d4f1, 0x3f8035d8ffcdb0f8,
	0x3f89bed23c431be3, 0x3f90e737811a1d21, 0x3f941c2040bd7cb1, 0x3f967046ec629a09,
	0x3f97de27ece9ed89, 0x3f98684de31e7040, 0x3f9818c4b07718fa, 0x3f97005261f91f60,
	0x3f95357fdd157646, 0x3f92d37c696c572a, 0x3f8ff1cff2beecb5, 0x3f898d20c7a72ac4,
	0x3f82bc5b3b0ae2df, 0x3f7784a1b8e9e667, 0x3f637bb14081726b, 0xbf4b2daca70c60a9,
	0xbf6efb00ad083727, 0xbf7a313758dc6ae9, 0xbf819d6a99164be0, 0xbf8533f57533403b,
	0xbf87cd120db5d340, 0xbf89638549cd25de, 0xbf89fb8b8d37b1bb, 0xbf89a21163f9204e,
	0xbf886ba8931297d4, 0xbf8673477783d71e, 0xbf83d8e1cb165db8, 0xbf80bfea7216142a,
	0xbf7a9b9bc2e40ebf, 0xbf7350e806435a7e, 0xbf67d35d3734ab5e, 0xbf52ade8feab8db9,
	0x3f415669446478e4, 0x3f60c56a092afb48, 0x3f6b9f4334a4561f, 0x3f724fb908fd87aa,
	0x3f75cc56dfe382ea, 0x3f783a0c23969a7b, 0x3f799833c40c3b82, 0x3f79f02721981bf3,
	0x3f7954212ab35261, 0x3f77dde0c5fc15c9, 0x3f75ad1c98fe0777, 0x3f72e5dacc0849f2,
	0x3f6f5d7e69dfde1b, 0x3f685ec2ca09e1fd, 0x3f611d750e54df3a, 0x3f53c6e392a46d17,
	0x3f37a046885f3365, 0xbf3bb034d2ee45c2, 0xbf5254267b04b482, 0xbf5c0516f9cecdc6,
	0xbf61e5736853564d, 0xbf64c464b9cc47ab, 0xbf669c1aef258f56, 0xbf67739985dd0e60,
	0xbf675afd6446395b, 0xbf666a0c909b4f78, 0xbf64be9879a7a07b, 0xbf627ac74b119dbd,
	0xbf5f86b04069dc9b, 0xbf597be8f754af5e, 0xbf531f3eaae9a1b1, 0xbf496d3de6ad7ea3,
	0xbf3a05ffde4670cf, 0xbf06df95c93a85ca, 0x3f31ee2b2c6547ac, 0x3f41e694a378c129,
	0x3f4930bf840e23c9, 0x3f4ebb5d05a0d47d, 0x3f51404da0539855, 0x3f524698f56b3f33,
	0x3f527ef85309e28f, 0x3f51fe70fe2513de, 0x3f50df1642009b74, 0x3f4e7cda93517cae,
	0x3f4a77ae24f9a533, 0x3f45ee226aa69e10, 0x3f411db747374f52, 0x3f387f39d229d97f,
	0x3f2e1b3d39af5f8b, 0x3f18f557bb082715, 0xbefac04896e68ddb, 0xbf20f5bc77df558a,
	0xbf2c1b6df3ee94a4, 0xbf3254602a816876, 0xbf354e90f6eac26b, 0xbf3709f2e5af1624,
	0xbf379fccb331ce8e, 0xbf37327192addad3, 0xbf35ea998a894237, 0xbf33f4c4977b3489,
	0xbf317ec5f68e887b, 0xbf2d6b1f793eb773, 0xbf2786a226b076d9, 0xbf219be6cec2ca36,
	0xbf17d7f36d2a3a18, 0xbf0aaec5bbab42ab, 0xbef01818dc224040, 0x3eef2f6e21093846,
	0x3f049d6e0060b71f, 0x3f0e598ccafabefd, 0x3f128bc14be97261, 0x3f148703bc70ef6a,
	0x3f1545e1579caa25, 0x3f14f7ddf5f8d766, 0x3f13d10ff9a1be0c, 0x3f1206d5738ece3a,
	0x3f0f99f6bf17c5d4, 0x3f0aa6d7ea524e96, 0x3f0588ddf740e1f4, 0x3f0086fb6fea9839,
	0x3ef7b28f6d6f5eed, 0x3eeea300dcbaf74a, 0x3ee03f904789777c, 0x3ec1bfeb320501ed,
	0xbec310d8e585a031, 0xbed6f55eca7e151f, 0xbedfdaa5dacdd0b7, 0xbee26944f3cf6e90,
	0xbee346894453bd1f, 0xbee2e099305cd5a8, 0xbee190385a7ea8b2, 0xbedf4d5fa2fb6ba2,
	0xbedad4f371257ba0, 0xbed62a9cdeb0ab32, 0xbed1a6df97b88316, 0xbecb100096894e58,
	0xbec3e8a76257d275, 0xbebbf6c29a5150c9, 0xbeb296292998088e, 0xbea70a10498f0e5e,
	0xbe99e52d02f887a1, 0xbe88c17f4066d432, 0xbe702a716cff56ca, 0x3e409f820f781f78,
	0x3e643ea99b770fe7, 0x3e67de40cde0a550, 0x3e64f4d534a2335c, 0x3e5f194536bddf7a,
	0x3e5425cebe1fa40a, 0x3e46d7b7cc631e73, 0x3e364746b6582e54, 0x3e21fc07b13031de,
	0x3e064c3d91cf7665, 0x3de224f901a0afc7, 0x3da97d57859c74a4, 0x0000000000000000,
	0x0000000000000000,
}

// minblepTable is minblepRaw reinterpreted as float64s, computed once at
// package init rather than baked into the source as decimal literals, which
// would round-trip lossily.
var minblepTable = buildMinblepTable()

func buildMinblepTable() [257]float64 {
	var tbl [257]float64
	for i, bits := range minblepRaw {
		tbl[i] = math.Float64frombits(bits)
	}
	return tbl
}
