package color

// acr3Forward samples the ACR3 default tone curve on 1025 evenly spaced
// points in [0,1].
var acr3Forward = [...]float32{
	0.00000, 0.00078, 0.00160, 0.00242, 0.00314, 0.00385, 0.00460, 0.00539,
	0.00623, 0.00712, 0.00806, 0.00906, 0.01012, 0.01122, 0.01238, 0.01359,
	0.01485, 0.01616, 0.01751, 0.01890, 0.02033, 0.02180, 0.02331, 0.02485,
	0.02643, 0.02804, 0.02967, 0.03134, 0.03303, 0.03475, 0.03648, 0.03824,
	0.04002, 0.04181, 0.04362, 0.04545, 0.04730, 0.04916, 0.05103, 0.05292,
	0.05483, 0.05675, 0.05868, 0.06063, 0.06259, 0.06457, 0.06655, 0.06856,
	0.07057, 0.07259, 0.07463, 0.07668, 0.07874, 0.08081, 0.08290, 0.08499,
	0.08710, 0.08921, 0.09134, 0.09348, 0.09563, 0.09779, 0.09996, 0.10214,
	0.10433, 0.10652, 0.10873, 0.11095, 0.11318, 0.11541, 0.11766, 0.11991,
	0.12218, 0.12445, 0.12673, 0.12902, 0.13132, 0.13363, 0.13595, 0.13827,
	0.14061, 0.14295, 0.14530, 0.14765, 0.15002, 0.15239, 0.15477, 0.15716,
	0.15956, 0.16197, 0.16438, 0.16680, 0.16923, 0.17166, 0.17410, 0.17655,
	0.17901, 0.18148, 0.18395, 0.18643, 0.18891, 0.19141, 0.19391, 0.19641,
	0.19893, 0.20145, 0.20398, 0.20651, 0.20905, 0.21160, 0.21416, 0.21672,
	0.21929, 0.22185, 0.22440, 0.22696, 0.22950, 0.23204, 0.23458, 0.23711,
	0.23963, 0.24215, 0.24466, 0.24717, 0.24967, 0.25216, 0.25465, 0.25713,
	0.25961, 0.26208, 0.26454, 0.26700, 0.26945, 0.27189, 0.27433, 0.27676,
	0.27918, 0.28160, 0.28401, 0.28641, 0.28881, 0.29120, 0.29358, 0.29596,
	0.29833, 0.30069, 0.30305, 0.30540, 0.30774, 0.31008, 0.31241, 0.31473,
	0.31704, 0.31935, 0.32165, 0.32395, 0.32623, 0.32851, 0.33079, 0.33305,
	0.33531, 0.33756, 0.33981, 0.34205, 0.34428, 0.34650, 0.34872, 0.35093,
	0.35313, 0.35532, 0.35751, 0.35969, 0.36187, 0.36404, 0.36620, 0.36835,
	0.37050, 0.37264, 0.37477, 0.37689, 0.37901, 0.38112, 0.38323, 0.38533,
	0.38742, 0.38950, 0.39158, 0.39365, 0.39571, 0.39777, 0.39982, 0.40186,
	0.40389, 0.40592, 0.40794, 0.40996, 0.41197, 0.41397, 0.41596, 0.41795,
	0.41993, 0.42191, 0.42388, 0.42584, 0.42779, 0.42974, 0.43168, 0.43362,
	0.43554, 0.43747, 0.43938, 0.44129, 0.44319, 0.44509, 0.44698, 0.44886,
	0.45073, 0.45260, 0.45447, 0.45632, 0.45817, 0.46002, 0.46186, 0.46369,
	0.46551, 0.46733, 0.46914, 0.47095, 0.47275, 0.47454, 0.47633, 0.47811,
	0.47989, 0.48166, 0.48342, 0.48518, 0.48693, 0.48867, 0.49041, 0.49214,
	0.49387, 0.49559, 0.49730, 0.49901, 0.50072, 0.50241, 0.50410, 0.50579,
	0.50747, 0.50914, 0.51081, 0.51247, 0.51413, 0.51578, 0.51742, 0.51906,
	0.52069, 0.52232, 0.52394, 0.52556, 0.52717, 0.52878, 0.53038, 0.53197,
	0.53356, 0.53514, 0.53672, 0.53829, 0.53986, 0.54142, 0.54297, 0.54452,
	0.54607, 0.54761, 0.54914, 0.55067, 0.55220, 0.55371, 0.55523, 0.55673,
	0.55824, 0.55973, 0.56123, 0.56271, 0.56420, 0.56567, 0.56715, 0.56861,
	0.57007, 0.57153, 0.57298, 0.57443, 0.57587, 0.57731, 0.57874, 0.58017,
	0.58159, 0.58301, 0.58443, 0.58583, 0.58724, 0.58864, 0.59003, 0.59142,
	0.59281, 0.59419, 0.59556, 0.59694, 0.59830, 0.59966, 0.60102, 0.60238,
	0.60373, 0.60507, 0.60641, 0.60775, 0.60908, 0.61040, 0.61173, 0.61305,
	0.61436, 0.61567, 0.61698, 0.61828, 0.61957, 0.62087, 0.62216, 0.62344,
	0.62472, 0.62600, 0.62727, 0.62854, 0.62980, 0.63106, 0.63232, 0.63357,
	0.63482, 0.63606, 0.63730, 0.63854, 0.63977, 0.64100, 0.64222, 0.64344,
	0.64466, 0.64587, 0.64708, 0.64829, 0.64949, 0.65069, 0.65188, 0.65307,
	0.65426, 0.65544, 0.65662, 0.65779, 0.65897, 0.66013, 0.66130, 0.66246,
	0.66362, 0.66477, 0.66592, 0.66707, 0.66821, 0.66935, 0.67048, 0.67162,
	0.67275, 0.67387, 0.67499, 0.67611, 0.67723, 0.67834, 0.67945, 0.68055,
	0.68165, 0.68275, 0.68385, 0.68494, 0.68603, 0.68711, 0.68819, 0.68927,
	0.69035, 0.69142, 0.69249, 0.69355, 0.69461, 0.69567, 0.69673, 0.69778,
	0.69883, 0.69988, 0.70092, 0.70196, 0.70300, 0.70403, 0.70506, 0.70609,
	0.70711, 0.70813, 0.70915, 0.71017, 0.71118, 0.71219, 0.71319, 0.71420,
	0.71520, 0.71620, 0.71719, 0.71818, 0.71917, 0.72016, 0.72114, 0.72212,
	0.72309, 0.72407, 0.72504, 0.72601, 0.72697, 0.72794, 0.72890, 0.72985,
	0.73081, 0.73176, 0.73271, 0.73365, 0.73460, 0.73554, 0.73647, 0.73741,
	0.73834, 0.73927, 0.74020, 0.74112, 0.74204, 0.74296, 0.74388, 0.74479,
	0.74570, 0.74661, 0.74751, 0.74842, 0.74932, 0.75021, 0.75111, 0.75200,
	0.75289, 0.75378, 0.75466, 0.75555, 0.75643, 0.75730, 0.75818, 0.75905,
	0.75992, 0.76079, 0.76165, 0.76251, 0.76337, 0.76423, 0.76508, 0.76594,
	0.76679, 0.76763, 0.76848, 0.76932, 0.77016, 0.77100, 0.77183, 0.77267,
	0.77350, 0.77432, 0.77515, 0.77597, 0.77680, 0.77761, 0.77843, 0.77924,
	0.78006, 0.78087, 0.78167, 0.78248, 0.78328, 0.78408, 0.78488, 0.78568,
	0.78647, 0.78726, 0.78805, 0.78884, 0.78962, 0.79040, 0.79118, 0.79196,
	0.79274, 0.79351, 0.79428, 0.79505, 0.79582, 0.79658, 0.79735, 0.79811,
	0.79887, 0.79962, 0.80038, 0.80113, 0.80188, 0.80263, 0.80337, 0.80412,
	0.80486, 0.80560, 0.80634, 0.80707, 0.80780, 0.80854, 0.80926, 0.80999,
	0.81072, 0.81144, 0.81216, 0.81288, 0.81360, 0.81431, 0.81503, 0.81574,
	0.81645, 0.81715, 0.81786, 0.81856, 0.81926, 0.81996, 0.82066, 0.82135,
	0.82205, 0.82274, 0.82343, 0.82412, 0.82480, 0.82549, 0.82617, 0.82685,
	0.82753, 0.82820, 0.82888, 0.82955, 0.83022, 0.83089, 0.83155, 0.83222,
	0.83288, 0.83354, 0.83420, 0.83486, 0.83552, 0.83617, 0.83682, 0.83747,
	0.83812, 0.83877, 0.83941, 0.84005, 0.84069, 0.84133, 0.84197, 0.84261,
	0.84324, 0.84387, 0.84450, 0.84513, 0.84576, 0.84639, 0.84701, 0.84763,
	0.84825, 0.84887, 0.84949, 0.85010, 0.85071, 0.85132, 0.85193, 0.85254,
	0.85315, 0.85375, 0.85436, 0.85496, 0.85556, 0.85615, 0.85675, 0.85735,
	0.85794, 0.85853, 0.85912, 0.85971, 0.86029, 0.86088, 0.86146, 0.86204,
	0.86262, 0.86320, 0.86378, 0.86435, 0.86493, 0.86550, 0.86607, 0.86664,
	0.86720, 0.86777, 0.86833, 0.86889, 0.86945, 0.87001, 0.87057, 0.87113,
	0.87168, 0.87223, 0.87278, 0.87333, 0.87388, 0.87443, 0.87497, 0.87552,
	0.87606, 0.87660, 0.87714, 0.87768, 0.87821, 0.87875, 0.87928, 0.87981,
	0.88034, 0.88087, 0.88140, 0.88192, 0.88244, 0.88297, 0.88349, 0.88401,
	0.88453, 0.88504, 0.88556, 0.88607, 0.88658, 0.88709, 0.88760, 0.88811,
	0.88862, 0.88912, 0.88963, 0.89013, 0.89063, 0.89113, 0.89163, 0.89212,
	0.89262, 0.89311, 0.89360, 0.89409, 0.89458, 0.89507, 0.89556, 0.89604,
	0.89653, 0.89701, 0.89749, 0.89797, 0.89845, 0.89892, 0.89940, 0.89987,
	0.90035, 0.90082, 0.90129, 0.90176, 0.90222, 0.90269, 0.90316, 0.90362,
	0.90408, 0.90454, 0.90500, 0.90546, 0.90592, 0.90637, 0.90683, 0.90728,
	0.90773, 0.90818, 0.90863, 0.90908, 0.90952, 0.90997, 0.91041, 0.91085,
	0.91130, 0.91173, 0.91217, 0.91261, 0.91305, 0.91348, 0.91392, 0.91435,
	0.91478, 0.91521, 0.91564, 0.91606, 0.91649, 0.91691, 0.91734, 0.91776,
	0.91818, 0.91860, 0.91902, 0.91944, 0.91985, 0.92027, 0.92068, 0.92109,
	0.92150, 0.92191, 0.92232, 0.92273, 0.92314, 0.92354, 0.92395, 0.92435,
	0.92475, 0.92515, 0.92555, 0.92595, 0.92634, 0.92674, 0.92713, 0.92753,
	0.92792, 0.92831, 0.92870, 0.92909, 0.92947, 0.92986, 0.93025, 0.93063,
	0.93101, 0.93139, 0.93177, 0.93215, 0.93253, 0.93291, 0.93328, 0.93366,
	0.93403, 0.93440, 0.93478, 0.93515, 0.93551, 0.93588, 0.93625, 0.93661,
	0.93698, 0.93734, 0.93770, 0.93807, 0.93843, 0.93878, 0.93914, 0.93950,
	0.93986, 0.94021, 0.94056, 0.94092, 0.94127, 0.94162, 0.94197, 0.94231,
	0.94266, 0.94301, 0.94335, 0.94369, 0.94404, 0.94438, 0.94472, 0.94506,
	0.94540, 0.94573, 0.94607, 0.94641, 0.94674, 0.94707, 0.94740, 0.94774,
	0.94807, 0.94839, 0.94872, 0.94905, 0.94937, 0.94970, 0.95002, 0.95035,
	0.95067, 0.95099, 0.95131, 0.95163, 0.95194, 0.95226, 0.95257, 0.95289,
	0.95320, 0.95351, 0.95383, 0.95414, 0.95445, 0.95475, 0.95506, 0.95537,
	0.95567, 0.95598, 0.95628, 0.95658, 0.95688, 0.95718, 0.95748, 0.95778,
	0.95808, 0.95838, 0.95867, 0.95897, 0.95926, 0.95955, 0.95984, 0.96013,
	0.96042, 0.96071, 0.96100, 0.96129, 0.96157, 0.96186, 0.96214, 0.96242,
	0.96271, 0.96299, 0.96327, 0.96355, 0.96382, 0.96410, 0.96438, 0.96465,
	0.96493, 0.96520, 0.96547, 0.96574, 0.96602, 0.96629, 0.96655, 0.96682,
	0.96709, 0.96735, 0.96762, 0.96788, 0.96815, 0.96841, 0.96867, 0.96893,
	0.96919, 0.96945, 0.96971, 0.96996, 0.97022, 0.97047, 0.97073, 0.97098,
	0.97123, 0.97149, 0.97174, 0.97199, 0.97223, 0.97248, 0.97273, 0.97297,
	0.97322, 0.97346, 0.97371, 0.97395, 0.97419, 0.97443, 0.97467, 0.97491,
	0.97515, 0.97539, 0.97562, 0.97586, 0.97609, 0.97633, 0.97656, 0.97679,
	0.97702, 0.97725, 0.97748, 0.97771, 0.97794, 0.97817, 0.97839, 0.97862,
	0.97884, 0.97907, 0.97929, 0.97951, 0.97973, 0.97995, 0.98017, 0.98039,
	0.98061, 0.98082, 0.98104, 0.98125, 0.98147, 0.98168, 0.98189, 0.98211,
	0.98232, 0.98253, 0.98274, 0.98295, 0.98315, 0.98336, 0.98357, 0.98377,
	0.98398, 0.98418, 0.98438, 0.98458, 0.98478, 0.98498, 0.98518, 0.98538,
	0.98558, 0.98578, 0.98597, 0.98617, 0.98636, 0.98656, 0.98675, 0.98694,
	0.98714, 0.98733, 0.98752, 0.98771, 0.98789, 0.98808, 0.98827, 0.98845,
	0.98864, 0.98882, 0.98901, 0.98919, 0.98937, 0.98955, 0.98973, 0.98991,
	0.99009, 0.99027, 0.99045, 0.99063, 0.99080, 0.99098, 0.99115, 0.99133,
	0.99150, 0.99167, 0.99184, 0.99201, 0.99218, 0.99235, 0.99252, 0.99269,
	0.99285, 0.99302, 0.99319, 0.99335, 0.99351, 0.99368, 0.99384, 0.99400,
	0.99416, 0.99432, 0.99448, 0.99464, 0.99480, 0.99495, 0.99511, 0.99527,
	0.99542, 0.99558, 0.99573, 0.99588, 0.99603, 0.99619, 0.99634, 0.99649,
	0.99664, 0.99678, 0.99693, 0.99708, 0.99722, 0.99737, 0.99751, 0.99766,
	0.99780, 0.99794, 0.99809, 0.99823, 0.99837, 0.99851, 0.99865, 0.99879,
	0.99892, 0.99906, 0.99920, 0.99933, 0.99947, 0.99960, 0.99974, 0.99987,
	1.00000,
}

// acr3Inverse samples the inverse of acr3Forward on the same grid.
var acr3Inverse = [...]float32{
	0.00000, 0.00121, 0.00237, 0.00362, 0.00496, 0.00621, 0.00738, 0.00848,
	0.00951, 0.01048, 0.01139, 0.01227, 0.01312, 0.01393, 0.01471, 0.01547,
	0.01620, 0.01692, 0.01763, 0.01831, 0.01899, 0.01965, 0.02030, 0.02094,
	0.02157, 0.02218, 0.02280, 0.02340, 0.02399, 0.02458, 0.02517, 0.02574,
	0.02631, 0.02688, 0.02744, 0.02800, 0.02855, 0.02910, 0.02965, 0.03019,
	0.03072, 0.03126, 0.03179, 0.03232, 0.03285, 0.03338, 0.03390, 0.03442,
	0.03493, 0.03545, 0.03596, 0.03647, 0.03698, 0.03749, 0.03799, 0.03849,
	0.03899, 0.03949, 0.03998, 0.04048, 0.04097, 0.04146, 0.04195, 0.04244,
	0.04292, 0.04341, 0.04389, 0.04437, 0.04485, 0.04533, 0.04580, 0.04628,
	0.04675, 0.04722, 0.04769, 0.04816, 0.04863, 0.04910, 0.04956, 0.05003,
	0.05049, 0.05095, 0.05141, 0.05187, 0.05233, 0.05278, 0.05324, 0.05370,
	0.05415, 0.05460, 0.05505, 0.05551, 0.05595, 0.05640, 0.05685, 0.05729,
	0.05774, 0.05818, 0.05863, 0.05907, 0.05951, 0.05995, 0.06039, 0.06083,
	0.06126, 0.06170, 0.06214, 0.06257, 0.06301, 0.06344, 0.06388, 0.06431,
	0.06474, 0.06517, 0.06560, 0.06602, 0.06645, 0.06688, 0.06731, 0.06773,
	0.06815, 0.06858, 0.06900, 0.06943, 0.06985, 0.07027, 0.07069, 0.07111,
	0.07152, 0.07194, 0.07236, 0.07278, 0.07319, 0.07361, 0.07402, 0.07444,
	0.07485, 0.07526, 0.07567, 0.07608, 0.07650, 0.07691, 0.07732, 0.07772,
	0.07813, 0.07854, 0.07895, 0.07935, 0.07976, 0.08016, 0.08057, 0.08098,
	0.08138, 0.08178, 0.08218, 0.08259, 0.08299, 0.08339, 0.08379, 0.08419,
	0.08459, 0.08499, 0.08539, 0.08578, 0.08618, 0.08657, 0.08697, 0.08737,
	0.08776, 0.08816, 0.08855, 0.08894, 0.08934, 0.08973, 0.09012, 0.09051,
	0.09091, 0.09130, 0.09169, 0.09208, 0.09247, 0.09286, 0.09324, 0.09363,
	0.09402, 0.09440, 0.09479, 0.09518, 0.09556, 0.09595, 0.09633, 0.09672,
	0.09710, 0.09749, 0.09787, 0.09825, 0.09863, 0.09901, 0.09939, 0.09978,
	0.10016, 0.10054, 0.10092, 0.10130, 0.10167, 0.10205, 0.10243, 0.10281,
	0.10319, 0.10356, 0.10394, 0.10432, 0.10469, 0.10507, 0.10544, 0.10582,
	0.10619, 0.10657, 0.10694, 0.10731, 0.10768, 0.10806, 0.10843, 0.10880,
	0.10917, 0.10954, 0.10991, 0.11029, 0.11066, 0.11103, 0.11141, 0.11178,
	0.11215, 0.11253, 0.11290, 0.11328, 0.11365, 0.11403, 0.11440, 0.11478,
	0.11516, 0.11553, 0.11591, 0.11629, 0.11666, 0.11704, 0.11742, 0.11780,
	0.11818, 0.11856, 0.11894, 0.11932, 0.11970, 0.12008, 0.12046, 0.12084,
	0.12122, 0.12161, 0.12199, 0.12237, 0.12276, 0.12314, 0.12352, 0.12391,
	0.12429, 0.12468, 0.12506, 0.12545, 0.12583, 0.12622, 0.12661, 0.12700,
	0.12738, 0.12777, 0.12816, 0.12855, 0.12894, 0.12933, 0.12972, 0.13011,
	0.13050, 0.13089, 0.13129, 0.13168, 0.13207, 0.13247, 0.13286, 0.13325,
	0.13365, 0.13404, 0.13444, 0.13483, 0.13523, 0.13563, 0.13603, 0.13642,
	0.13682, 0.13722, 0.13762, 0.13802, 0.13842, 0.13882, 0.13922, 0.13962,
	0.14003, 0.14043, 0.14083, 0.14124, 0.14164, 0.14204, 0.14245, 0.14285,
	0.14326, 0.14366, 0.14407, 0.14448, 0.14489, 0.14530, 0.14570, 0.14611,
	0.14652, 0.14693, 0.14734, 0.14776, 0.14817, 0.14858, 0.14900, 0.14941,
	0.14982, 0.15024, 0.15065, 0.15107, 0.15148, 0.15190, 0.15232, 0.15274,
	0.15316, 0.15357, 0.15399, 0.15441, 0.15483, 0.15526, 0.15568, 0.15610,
	0.15652, 0.15695, 0.15737, 0.15779, 0.15822, 0.15864, 0.15907, 0.15950,
	0.15992, 0.16035, 0.16078, 0.16121, 0.16164, 0.16207, 0.16250, 0.16293,
	0.16337, 0.16380, 0.16423, 0.16467, 0.16511, 0.16554, 0.16598, 0.16641,
	0.16685, 0.16729, 0.16773, 0.16816, 0.16860, 0.16904, 0.16949, 0.16993,
	0.17037, 0.17081, 0.17126, 0.17170, 0.17215, 0.17259, 0.17304, 0.17349,
	0.17393, 0.17438, 0.17483, 0.17528, 0.17573, 0.17619, 0.17664, 0.17709,
	0.17754, 0.17799, 0.17845, 0.17890, 0.17936, 0.17982, 0.18028, 0.18073,
	0.18119, 0.18165, 0.18211, 0.18257, 0.18303, 0.18350, 0.18396, 0.18442,
	0.18489, 0.18535, 0.18582, 0.18629, 0.18676, 0.18723, 0.18770, 0.18817,
	0.18864, 0.18911, 0.18958, 0.19005, 0.19053, 0.19100, 0.19147, 0.19195,
	0.19243, 0.19291, 0.19339, 0.19387, 0.19435, 0.19483, 0.19531, 0.19579,
	0.19627, 0.19676, 0.19724, 0.19773, 0.19821, 0.19870, 0.19919, 0.19968,
	0.20017, 0.20066, 0.20115, 0.20164, 0.20214, 0.20263, 0.20313, 0.20362,
	0.20412, 0.20462, 0.20512, 0.20561, 0.20611, 0.20662, 0.20712, 0.20762,
	0.20812, 0.20863, 0.20913, 0.20964, 0.21015, 0.21066, 0.21117, 0.21168,
	0.21219, 0.21270, 0.21321, 0.21373, 0.21424, 0.21476, 0.21527, 0.21579,
	0.21631, 0.21683, 0.21735, 0.21787, 0.21839, 0.21892, 0.21944, 0.21997,
	0.22049, 0.22102, 0.22155, 0.22208, 0.22261, 0.22314, 0.22367, 0.22420,
	0.22474, 0.22527, 0.22581, 0.22634, 0.22688, 0.22742, 0.22796, 0.22850,
	0.22905, 0.22959, 0.23013, 0.23068, 0.23123, 0.23178, 0.23232, 0.23287,
	0.23343, 0.23398, 0.23453, 0.23508, 0.23564, 0.23620, 0.23675, 0.23731,
	0.23787, 0.23843, 0.23899, 0.23956, 0.24012, 0.24069, 0.24125, 0.24182,
	0.24239, 0.24296, 0.24353, 0.24410, 0.24468, 0.24525, 0.24582, 0.24640,
	0.24698, 0.24756, 0.24814, 0.24872, 0.24931, 0.24989, 0.25048, 0.25106,
	0.25165, 0.25224, 0.25283, 0.25342, 0.25401, 0.25460, 0.25520, 0.25579,
	0.25639, 0.25699, 0.25759, 0.25820, 0.25880, 0.25940, 0.26001, 0.26062,
	0.26122, 0.26183, 0.26244, 0.26306, 0.26367, 0.26429, 0.26490, 0.26552,
	0.26614, 0.26676, 0.26738, 0.26800, 0.26863, 0.26925, 0.26988, 0.27051,
	0.27114, 0.27177, 0.27240, 0.27303, 0.27367, 0.27431, 0.27495, 0.27558,
	0.27623, 0.27687, 0.27751, 0.27816, 0.27881, 0.27945, 0.28011, 0.28076,
	0.28141, 0.28207, 0.28272, 0.28338, 0.28404, 0.28470, 0.28536, 0.28602,
	0.28669, 0.28736, 0.28802, 0.28869, 0.28937, 0.29004, 0.29071, 0.29139,
	0.29207, 0.29274, 0.29342, 0.29410, 0.29479, 0.29548, 0.29616, 0.29685,
	0.29754, 0.29823, 0.29893, 0.29962, 0.30032, 0.30102, 0.30172, 0.30242,
	0.30312, 0.30383, 0.30453, 0.30524, 0.30595, 0.30667, 0.30738, 0.30809,
	0.30881, 0.30953, 0.31025, 0.31097, 0.31170, 0.31242, 0.31315, 0.31388,
	0.31461, 0.31534, 0.31608, 0.31682, 0.31755, 0.31829, 0.31904, 0.31978,
	0.32053, 0.32127, 0.32202, 0.32277, 0.32353, 0.32428, 0.32504, 0.32580,
	0.32656, 0.32732, 0.32808, 0.32885, 0.32962, 0.33039, 0.33116, 0.33193,
	0.33271, 0.33349, 0.33427, 0.33505, 0.33583, 0.33662, 0.33741, 0.33820,
	0.33899, 0.33978, 0.34058, 0.34138, 0.34218, 0.34298, 0.34378, 0.34459,
	0.34540, 0.34621, 0.34702, 0.34783, 0.34865, 0.34947, 0.35029, 0.35111,
	0.35194, 0.35277, 0.35360, 0.35443, 0.35526, 0.35610, 0.35694, 0.35778,
	0.35862, 0.35946, 0.36032, 0.36117, 0.36202, 0.36287, 0.36372, 0.36458,
	0.36545, 0.36631, 0.36718, 0.36805, 0.36891, 0.36979, 0.37066, 0.37154,
	0.37242, 0.37331, 0.37419, 0.37507, 0.37596, 0.37686, 0.37775, 0.37865,
	0.37955, 0.38045, 0.38136, 0.38227, 0.38317, 0.38409, 0.38500, 0.38592,
	0.38684, 0.38776, 0.38869, 0.38961, 0.39055, 0.39148, 0.39242, 0.39335,
	0.39430, 0.39524, 0.39619, 0.39714, 0.39809, 0.39904, 0.40000, 0.40097,
	0.40193, 0.40289, 0.40386, 0.40483, 0.40581, 0.40679, 0.40777, 0.40875,
	0.40974, 0.41073, 0.41172, 0.41272, 0.41372, 0.41472, 0.41572, 0.41673,
	0.41774, 0.41875, 0.41977, 0.42079, 0.42181, 0.42284, 0.42386, 0.42490,
	0.42594, 0.42697, 0.42801, 0.42906, 0.43011, 0.43116, 0.43222, 0.43327,
	0.43434, 0.43540, 0.43647, 0.43754, 0.43862, 0.43970, 0.44077, 0.44186,
	0.44295, 0.44404, 0.44514, 0.44624, 0.44734, 0.44845, 0.44956, 0.45068,
	0.45179, 0.45291, 0.45404, 0.45516, 0.45630, 0.45744, 0.45858, 0.45972,
	0.46086, 0.46202, 0.46318, 0.46433, 0.46550, 0.46667, 0.46784, 0.46901,
	0.47019, 0.47137, 0.47256, 0.47375, 0.47495, 0.47615, 0.47735, 0.47856,
	0.47977, 0.48099, 0.48222, 0.48344, 0.48467, 0.48590, 0.48714, 0.48838,
	0.48963, 0.49088, 0.49213, 0.49340, 0.49466, 0.49593, 0.49721, 0.49849,
	0.49977, 0.50106, 0.50236, 0.50366, 0.50496, 0.50627, 0.50758, 0.50890,
	0.51023, 0.51155, 0.51289, 0.51422, 0.51556, 0.51692, 0.51827, 0.51964,
	0.52100, 0.52237, 0.52374, 0.52512, 0.52651, 0.52790, 0.52930, 0.53070,
	0.53212, 0.53353, 0.53495, 0.53638, 0.53781, 0.53925, 0.54070, 0.54214,
	0.54360, 0.54506, 0.54653, 0.54800, 0.54949, 0.55098, 0.55247, 0.55396,
	0.55548, 0.55699, 0.55851, 0.56003, 0.56156, 0.56310, 0.56464, 0.56621,
	0.56777, 0.56933, 0.57091, 0.57248, 0.57407, 0.57568, 0.57727, 0.57888,
	0.58050, 0.58213, 0.58376, 0.58541, 0.58705, 0.58871, 0.59037, 0.59204,
	0.59373, 0.59541, 0.59712, 0.59882, 0.60052, 0.60226, 0.60399, 0.60572,
	0.60748, 0.60922, 0.61099, 0.61276, 0.61455, 0.61635, 0.61814, 0.61996,
	0.62178, 0.62361, 0.62545, 0.62730, 0.62917, 0.63104, 0.63291, 0.63480,
	0.63671, 0.63862, 0.64054, 0.64249, 0.64443, 0.64638, 0.64835, 0.65033,
	0.65232, 0.65433, 0.65633, 0.65836, 0.66041, 0.66245, 0.66452, 0.66660,
	0.66868, 0.67078, 0.67290, 0.67503, 0.67717, 0.67932, 0.68151, 0.68368,
	0.68587, 0.68809, 0.69033, 0.69257, 0.69482, 0.69709, 0.69939, 0.70169,
	0.70402, 0.70634, 0.70869, 0.71107, 0.71346, 0.71587, 0.71829, 0.72073,
	0.72320, 0.72567, 0.72818, 0.73069, 0.73323, 0.73579, 0.73838, 0.74098,
	0.74360, 0.74622, 0.74890, 0.75159, 0.75429, 0.75704, 0.75979, 0.76257,
	0.76537, 0.76821, 0.77109, 0.77396, 0.77688, 0.77982, 0.78278, 0.78579,
	0.78883, 0.79187, 0.79498, 0.79809, 0.80127, 0.80445, 0.80767, 0.81095,
	0.81424, 0.81757, 0.82094, 0.82438, 0.82782, 0.83133, 0.83488, 0.83847,
	0.84210, 0.84577, 0.84951, 0.85328, 0.85713, 0.86103, 0.86499, 0.86900,
	0.87306, 0.87720, 0.88139, 0.88566, 0.89000, 0.89442, 0.89891, 0.90350,
	0.90818, 0.91295, 0.91780, 0.92272, 0.92780, 0.93299, 0.93828, 0.94369,
	0.94926, 0.95493, 0.96082, 0.96684, 0.97305, 0.97943, 0.98605, 0.99291,
	1.00000,
}
