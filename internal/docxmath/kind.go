package docxmath

// Kind is the construct an OMML element represents. It is derived from the
// element name alone.
type Kind int

const (
	UnrecognizedKind Kind = iota
	RootKind
	RunKind
	SuperscriptKind
	SubscriptKind
	SubSupKind
	PreSubSupKind
	FractionKind
	RadicalKind
	DelimiterKind
	NaryKind
	FunctionKind
	AccentKind
	BarKind
	GroupCharKind
	LowerLimitKind
	UpperLimitKind
	EquationArrayKind
	MatrixKind
	GenericOperandKind
)

var kindNames = [...]string{
	UnrecognizedKind:   "unrecognized",
	RootKind:           "root",
	RunKind:            "run",
	SuperscriptKind:    "superscript",
	SubscriptKind:      "subscript",
	SubSupKind:         "subsup",
	PreSubSupKind:      "presubsup",
	FractionKind:       "fraction",
	RadicalKind:        "radical",
	DelimiterKind:      "delimiter",
	NaryKind:           "nary",
	FunctionKind:       "function",
	AccentKind:         "accent",
	BarKind:            "bar",
	GroupCharKind:      "groupchr",
	LowerLimitKind:     "limlow",
	UpperLimitKind:     "limupp",
	EquationArrayKind:  "eqarr",
	MatrixKind:         "matrix",
	GenericOperandKind: "operand",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// OMML element names.
const (
	tagMath      = "m:oMath"
	tagRun       = "m:r"
	tagText      = "m:t"
	tagBase      = "m:e"
	tagSup       = "m:sup"
	tagSub       = "m:sub"
	tagNum       = "m:num"
	tagDen       = "m:den"
	tagDeg       = "m:deg"
	tagLim       = "m:lim"
	tagFName     = "m:fName"
	tagMatrixRow = "m:mr"

	tagFracPr  = "m:fPr"
	tagDelimPr = "m:dPr"
	tagNaryPr  = "m:naryPr"
	tagAccPr   = "m:accPr"
	tagBarPr   = "m:barPr"
	tagGroupPr = "m:groupChrPr"
	tagType    = "m:type"
	tagChr     = "m:chr"
	tagPos     = "m:pos"
	tagBegChr  = "m:begChr"
	tagEndChr  = "m:endChr"
	tagSepChr  = "m:sepChr"
	attrVal    = "m:val"
)

var kindByTag = map[string]Kind{
	tagMath:      RootKind,
	tagRun:       RunKind,
	"m:sSup":     SuperscriptKind,
	"m:sSub":     SubscriptKind,
	"m:sSubSup":  SubSupKind,
	"m:sPre":     PreSubSupKind,
	"m:f":        FractionKind,
	"m:rad":      RadicalKind,
	"m:d":        DelimiterKind,
	"m:nary":     NaryKind,
	"m:func":     FunctionKind,
	"m:acc":      AccentKind,
	"m:bar":      BarKind,
	"m:groupChr": GroupCharKind,
	"m:limLow":   LowerLimitKind,
	"m:limUpp":   UpperLimitKind,
	"m:eqArr":    EquationArrayKind,
	"m:m":        MatrixKind,
	tagBase:      GenericOperandKind,
	tagNum:       GenericOperandKind,
	tagDen:       GenericOperandKind,
	tagDeg:       GenericOperandKind,
	tagSup:       GenericOperandKind,
	tagSub:       GenericOperandKind,
	tagLim:       GenericOperandKind,
	tagFName:     GenericOperandKind,
	tagMatrixRow: GenericOperandKind,
}

// KindOf classifies an element name.
func KindOf(name string) Kind {
	if k, ok := kindByTag[name]; ok {
		return k
	}
	return UnrecognizedKind
}
