package pixel

import (
	"fmt"
	"image"
)

// Case is one entry of a conversion catalog: a source and target encoding,
// the path used to convert between them and the outcome it should produce.
type Case struct {
	Name    string   `yaml:"name"`
	Source  Encoding `yaml:"source"`
	Target  Encoding `yaml:"target"`
	Options Options  `yaml:"options"`
	// SourceName is the name the source image type is reported under when
	// it differs from the encoding name.
	SourceName string `yaml:"source_name"`
	// Copy prepares the source with Copy instead of Draw.
	Copy     bool    `yaml:"copy"`
	Expected Outcome `yaml:"expected"`
}

// SourceLabel returns SourceName, or the source encoding name if unset.
func (c Case) SourceLabel() string {
	if c.SourceName != "" {
		return c.SourceName
	}
	return c.Source.String()
}

// Classify returns the outcome predicted for c.
func (c Case) Classify() Outcome {
	return Classify(c.Source, c.Target, c.Options)
}

// Prepare produces the source buffer for c from a decoded image.
func (c Case) Prepare(img image.Image) (*Buffer, error) {
	if c.Copy {
		if c.Source.WithByteOrder(NativeOrder) != IntARGB {
			return nil, fmt.Errorf("copied sources are %s, not %s", IntARGB, c.Source)
		}
		src, err := Copy(img)
		if err != nil {
			return nil, err
		}
		if c.Source.ByteOrder != NativeOrder {
			return Reorder(src, c.Source.ByteOrder)
		}
		return src, nil
	}
	return Draw(img, c.Source)
}

// Run prepares the source for c and converts it into a new target buffer.
func (c Case) Run(img image.Image) (*Buffer, error) {
	src, err := c.Prepare(img)
	if err != nil {
		return nil, fmt.Errorf("could not prepare %s source: %w", c.Source, err)
	}
	dst, err := ConvertTo(src, c.Target, c.Options)
	if err != nil {
		return nil, fmt.Errorf("could not convert %s to %s: %w", c.Source, c.Target, err)
	}
	return dst, nil
}

// TesterCatalog lists the conversions exercised by the tester, in order.
var TesterCatalog = []Case{
	{Name: "drawWrite", Source: IntARGB, Target: IntARGB, Options: Options{Alpha: AlphaNaive}, Expected: OK},
	{Name: "drawWritePre", Source: IntARGB, Target: IntARGBPre, Options: Options{Alpha: AlphaNaive}, Expected: WrongAlpha},
	{Name: "drawPreWritePre", Source: IntARGBPre, Target: IntARGBPre, Options: Options{Alpha: AlphaNaive}, Expected: OK},
	{Name: "drawPreWrite", Source: IntARGBPre, Target: IntARGB, Options: Options{Alpha: AlphaNaive}, Expected: WrongAlpha},
	{Name: "drawRgbWrite", Source: IntRGB, Target: IntARGB, Options: Options{Alpha: AlphaNaive}, Expected: Blank},
	{Name: "drawBgrWrite", Source: IntBGR, Target: IntARGB, Options: Options{Alpha: AlphaNaive}, Expected: Blank},
	{Name: "drawAbgrWrite", Source: ByteABGR, SourceName: "4BYTE_ABGR", Target: ByteBGRA, Options: Naive, Expected: WrongColors},
	{Name: "drawAbgrPreWrite", Source: ByteABGRPre, SourceName: "4BYTE_ABGR_PRE", Target: ByteBGRAPre, Options: Naive, Expected: WrongColors},
	{Name: "copyWrite", Source: IntARGB, Target: IntARGB, Options: Options{Alpha: AlphaNaive}, Copy: true, Expected: OK},
	{Name: "copyWritePre", Source: IntARGB, Target: IntARGBPre, Options: Options{Alpha: AlphaNaive}, Copy: true, Expected: WrongAlpha},
	{Name: "nioDrawPrePut", Source: IntARGBPre.WithByteOrder(LittleEndian), SourceName: "INT_ARGB_PRE", Target: ByteBGRAPre, Options: Naive, Expected: OK},
	{Name: "nioCopyPut", Source: IntARGB.WithByteOrder(LittleEndian), SourceName: "INT_ARGB", Target: ByteBGRAPre, Options: Naive, Copy: true, Expected: WrongAlpha},
}

// Mismatch describes a catalog entry whose expected outcome differs from
// what Classify predicts.
type Mismatch struct {
	Index     int
	Case      Case
	Predicted Outcome
}

// Check compares the expected outcome of every case against Classify.
func Check(cases []Case) []Mismatch {
	var res []Mismatch
	for i, c := range cases {
		if p := c.Classify(); p != c.Expected {
			res = append(res, Mismatch{Index: i, Case: c, Predicted: p})
		}
	}
	return res
}
