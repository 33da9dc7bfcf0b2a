package sentiment

// valence ratings on the usual [-4, 4] scale, tuned toward support conversations.
var lexicon = map[string]float64{
	// negative
	"abysmal":       -3.1,
	"angry":         -2.3,
	"annoyed":       -1.6,
	"annoying":      -1.8,
	"awful":         -2.0,
	"bad":           -2.5,
	"broke":         -1.8,
	"broken":        -2.1,
	"bug":           -1.2,
	"buggy":         -1.6,
	"charged":       -0.8,
	"complaint":     -1.7,
	"confused":      -1.3,
	"confusing":     -1.4,
	"crash":         -1.8,
	"crashed":       -1.9,
	"crashes":       -1.8,
	"damn":          -1.7,
	"declined":      -1.2,
	"delay":         -1.3,
	"delayed":       -1.4,
	"disappointed":  -2.3,
	"disappointing": -2.2,
	"disaster":      -3.1,
	"disgusted":     -2.4,
	"dissatisfied":  -2.1,
	"down":          -0.8,
	"error":         -1.5,
	"errors":        -1.5,
	"fail":          -2.5,
	"failed":        -2.3,
	"failing":       -2.3,
	"fails":         -2.3,
	"failure":       -2.3,
	"fraud":         -2.8,
	"frustrated":    -2.4,
	"frustrating":   -2.2,
	"furious":       -2.7,
	"garbage":       -2.5,
	"hate":          -2.7,
	"hated":         -3.2,
	"horrible":      -2.5,
	"hopeless":      -2.0,
	"impossible":    -1.6,
	"issue":         -0.5,
	"lost":          -1.3,
	"mad":           -2.2,
	"mess":          -1.5,
	"missing":       -1.2,
	"nightmare":     -2.7,
	"outrageous":    -2.2,
	"pathetic":      -2.7,
	"poor":          -2.1,
	"problem":       -1.7,
	"problems":      -1.7,
	"refund":        -0.6,
	"ridiculous":    -2.1,
	"sad":           -2.1,
	"scam":          -2.6,
	"sick":          -2.3,
	"slow":          -1.2,
	"stuck":         -1.4,
	"sucks":         -1.5,
	"terrible":      -2.1,
	"unacceptable":  -2.0,
	"unhappy":       -1.8,
	"upset":         -1.6,
	"useless":       -1.8,
	"waste":         -1.8,
	"wasted":        -2.2,
	"worse":         -2.1,
	"worst":         -3.1,
	"wrong":         -2.1,

	// positive
	"amazing":     2.8,
	"appreciate":  1.7,
	"appreciated": 2.3,
	"awesome":     3.1,
	"best":        3.2,
	"better":      1.9,
	"brilliant":   2.8,
	"cool":        1.3,
	"excellent":   2.7,
	"fantastic":   2.6,
	"fine":        0.8,
	"fixed":       1.1,
	"glad":        2.0,
	"good":        1.9,
	"grateful":    2.0,
	"great":       3.1,
	"happy":       2.7,
	"help":        1.7,
	"helped":      1.6,
	"helpful":     1.8,
	"love":        3.2,
	"lovely":      2.8,
	"nice":        1.8,
	"ok":          0.9,
	"okay":        0.9,
	"perfect":     2.7,
	"pleased":     1.9,
	"resolved":    1.4,
	"satisfied":   1.8,
	"solved":      1.5,
	"thank":       1.5,
	"thanks":      1.9,
	"useful":      1.9,
	"welcome":     2.0,
	"wonderful":   2.7,
	"works":       1.0,
	"yes":         1.7,
}

// intensity modifiers applied to the following sentiment-bearing word.
var boosters = map[string]float64{
	"absolutely": 0.293,
	"completely": 0.293,
	"extremely":  0.293,
	"incredibly": 0.293,
	"really":     0.293,
	"so":         0.293,
	"super":      0.293,
	"totally":    0.293,
	"very":       0.293,
	"barely":     -0.293,
	"kinda":      -0.293,
	"slightly":   -0.293,
	"somewhat":   -0.293,
	"marginally": -0.293,
}

var negations = map[string]struct{}{
	"aint":     {},
	"aren't":   {},
	"can't":    {},
	"cannot":   {},
	"didn't":   {},
	"doesn't":  {},
	"don't":    {},
	"isn't":    {},
	"never":    {},
	"no":       {},
	"nothing":  {},
	"not":      {},
	"wasn't":   {},
	"won't":    {},
	"wouldn't": {},
}
