package features

// Reference offset combinations. Each is one conjunction of features that
// identifies the first character of a recognisable construct.
var (
	TwitterOffsets1A = []Feature{TwitterSpecial, PrevSpace, NextAlphaNumeric}
	TwitterOffsets1B = []Feature{TwitterSpecial, PrevSymbol, NextAlphaNumeric}
	TwitterOffsets2A = []Feature{Period, PrevSpace, NextAt, AfterNextAlpha}
	TwitterOffsets2B = []Feature{Period, PrevSymbol, NextAt, AfterNextAlpha}

	MentionOffsets1A = []Feature{At, PrevSpace, NextAlphaNumeric}
	MentionOffsets1B = []Feature{At, PrevSymbol, NextAlphaNumeric}
	MentionOffsets2A = []Feature{Period, PrevSpace, NextAt, AfterNextAlpha}
	MentionOffsets2B = []Feature{Period, PrevSymbol, NextAt, AfterNextAlpha}

	HashtagOffsets1A = []Feature{Hash, PrevSpace, NextAlphaNumeric}
	HashtagOffsets1B = []Feature{Hash, PrevSymbol, NextAlphaNumeric}

	EmailOffsets        = []Feature{At, PrevAlphaNumeric, NextAlphaNumeric}
	URLOffsets          = []Feature{Colon, NextSlash, AfterNextSlash, PrevAlpha}
	NumericOffsets      = []Feature{Numeric}
	EmbeddedAposOffsets = []Feature{Apostrophe, PrevAlpha, NextAlpha}
	CamelCaseOffsets1   = []Feature{Upper, NextLower}
	CamelCaseOffsets2   = []Feature{Upper, PrevLower}
	SymbolOffsets       = []Feature{Symbol}
)
