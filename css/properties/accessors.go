// Typed accessors for the properties listed in keys.go.

package properties

// StyleAccessor provides typed access to the computed properties.
type StyleAccessor interface {
	GetDisplay() String
	GetPosition() String
	GetFloat() String
	GetClear() String
	GetTop() DimOrS
	GetRight() DimOrS
	GetBottom() DimOrS
	GetLeft() DimOrS
	GetVisibility() String
	GetOverflow() String
	GetWidth() DimOrS
	GetHeight() DimOrS
	GetMinWidth() DimOrS
	GetMinHeight() DimOrS
	GetMaxWidth() DimOrS
	GetMaxHeight() DimOrS
	GetBoxSizing() String
	GetBorderTopColor() Color
	GetBorderTopStyle() String
	GetBorderTopWidth() DimOrS
	GetMarginTop() DimOrS
	GetPaddingTop() DimOrS
	GetBorderRightColor() Color
	GetBorderRightStyle() String
	GetBorderRightWidth() DimOrS
	GetMarginRight() DimOrS
	GetPaddingRight() DimOrS
	GetBorderBottomColor() Color
	GetBorderBottomStyle() String
	GetBorderBottomWidth() DimOrS
	GetMarginBottom() DimOrS
	GetPaddingBottom() DimOrS
	GetBorderLeftColor() Color
	GetBorderLeftStyle() String
	GetBorderLeftWidth() DimOrS
	GetMarginLeft() DimOrS
	GetPaddingLeft() DimOrS
	GetColor() Color
	GetBackgroundColor() Color
	GetFontFamily() Strings
	GetFontSize() DimOrS
	GetFontStyle() String
	GetFontWeight() Int
	GetLineHeight() DimOrS
	GetLetterSpacing() DimOrS
	GetWordSpacing() DimOrS
	GetTextAlign() String
	GetTextIndent() DimOrS
	GetTextTransform() String
	GetWhiteSpace() String
	GetVerticalAlign() DimOrS
	GetLang() String
	GetContent() SContent
	GetQuotes() Quotes
	GetCounterReset() SIntStrings
	GetCounterIncrement() SIntStrings
	GetCounterSet() SIntStrings
	GetListStyleType() String
	GetBreakBefore() String
	GetBreakAfter() String
	GetBreakInside() String
	GetOrphans() Int
	GetWidows() Int
	GetSize() Point
}

func (s *Properties) GetDisplay() String               { return s[PDisplay].(String) }
func (s *Properties) GetPosition() String              { return s[PPosition].(String) }
func (s *Properties) GetFloat() String                 { return s[PFloat].(String) }
func (s *Properties) GetClear() String                 { return s[PClear].(String) }
func (s *Properties) GetTop() DimOrS                   { return s[PTop].(DimOrS) }
func (s *Properties) GetRight() DimOrS                 { return s[PRight].(DimOrS) }
func (s *Properties) GetBottom() DimOrS                { return s[PBottom].(DimOrS) }
func (s *Properties) GetLeft() DimOrS                  { return s[PLeft].(DimOrS) }
func (s *Properties) GetVisibility() String            { return s[PVisibility].(String) }
func (s *Properties) GetOverflow() String              { return s[POverflow].(String) }
func (s *Properties) GetWidth() DimOrS                 { return s[PWidth].(DimOrS) }
func (s *Properties) GetHeight() DimOrS                { return s[PHeight].(DimOrS) }
func (s *Properties) GetMinWidth() DimOrS              { return s[PMinWidth].(DimOrS) }
func (s *Properties) GetMinHeight() DimOrS             { return s[PMinHeight].(DimOrS) }
func (s *Properties) GetMaxWidth() DimOrS              { return s[PMaxWidth].(DimOrS) }
func (s *Properties) GetMaxHeight() DimOrS             { return s[PMaxHeight].(DimOrS) }
func (s *Properties) GetBoxSizing() String             { return s[PBoxSizing].(String) }
func (s *Properties) GetBorderTopColor() Color         { return s[PBorderTopColor].(Color) }
func (s *Properties) GetBorderTopStyle() String        { return s[PBorderTopStyle].(String) }
func (s *Properties) GetBorderTopWidth() DimOrS        { return s[PBorderTopWidth].(DimOrS) }
func (s *Properties) GetMarginTop() DimOrS             { return s[PMarginTop].(DimOrS) }
func (s *Properties) GetPaddingTop() DimOrS            { return s[PPaddingTop].(DimOrS) }
func (s *Properties) GetBorderRightColor() Color       { return s[PBorderRightColor].(Color) }
func (s *Properties) GetBorderRightStyle() String      { return s[PBorderRightStyle].(String) }
func (s *Properties) GetBorderRightWidth() DimOrS      { return s[PBorderRightWidth].(DimOrS) }
func (s *Properties) GetMarginRight() DimOrS           { return s[PMarginRight].(DimOrS) }
func (s *Properties) GetPaddingRight() DimOrS          { return s[PPaddingRight].(DimOrS) }
func (s *Properties) GetBorderBottomColor() Color      { return s[PBorderBottomColor].(Color) }
func (s *Properties) GetBorderBottomStyle() String     { return s[PBorderBottomStyle].(String) }
func (s *Properties) GetBorderBottomWidth() DimOrS     { return s[PBorderBottomWidth].(DimOrS) }
func (s *Properties) GetMarginBottom() DimOrS          { return s[PMarginBottom].(DimOrS) }
func (s *Properties) GetPaddingBottom() DimOrS         { return s[PPaddingBottom].(DimOrS) }
func (s *Properties) GetBorderLeftColor() Color        { return s[PBorderLeftColor].(Color) }
func (s *Properties) GetBorderLeftStyle() String       { return s[PBorderLeftStyle].(String) }
func (s *Properties) GetBorderLeftWidth() DimOrS       { return s[PBorderLeftWidth].(DimOrS) }
func (s *Properties) GetMarginLeft() DimOrS            { return s[PMarginLeft].(DimOrS) }
func (s *Properties) GetPaddingLeft() DimOrS           { return s[PPaddingLeft].(DimOrS) }
func (s *Properties) GetColor() Color                  { return s[PColor].(Color) }
func (s *Properties) GetBackgroundColor() Color        { return s[PBackgroundColor].(Color) }
func (s *Properties) GetFontFamily() Strings           { return s[PFontFamily].(Strings) }
func (s *Properties) GetFontSize() DimOrS              { return s[PFontSize].(DimOrS) }
func (s *Properties) GetFontStyle() String             { return s[PFontStyle].(String) }
func (s *Properties) GetFontWeight() Int               { return s[PFontWeight].(Int) }
func (s *Properties) GetLineHeight() DimOrS            { return s[PLineHeight].(DimOrS) }
func (s *Properties) GetLetterSpacing() DimOrS         { return s[PLetterSpacing].(DimOrS) }
func (s *Properties) GetWordSpacing() DimOrS           { return s[PWordSpacing].(DimOrS) }
func (s *Properties) GetTextAlign() String             { return s[PTextAlign].(String) }
func (s *Properties) GetTextIndent() DimOrS            { return s[PTextIndent].(DimOrS) }
func (s *Properties) GetTextTransform() String         { return s[PTextTransform].(String) }
func (s *Properties) GetWhiteSpace() String            { return s[PWhiteSpace].(String) }
func (s *Properties) GetVerticalAlign() DimOrS         { return s[PVerticalAlign].(DimOrS) }
func (s *Properties) GetLang() String                  { return s[PLang].(String) }
func (s *Properties) GetContent() SContent             { return s[PContent].(SContent) }
func (s *Properties) GetQuotes() Quotes                { return s[PQuotes].(Quotes) }
func (s *Properties) GetCounterReset() SIntStrings     { return s[PCounterReset].(SIntStrings) }
func (s *Properties) GetCounterIncrement() SIntStrings { return s[PCounterIncrement].(SIntStrings) }
func (s *Properties) GetCounterSet() SIntStrings       { return s[PCounterSet].(SIntStrings) }
func (s *Properties) GetListStyleType() String         { return s[PListStyleType].(String) }
func (s *Properties) GetBreakBefore() String           { return s[PBreakBefore].(String) }
func (s *Properties) GetBreakAfter() String            { return s[PBreakAfter].(String) }
func (s *Properties) GetBreakInside() String           { return s[PBreakInside].(String) }
func (s *Properties) GetOrphans() Int                  { return s[POrphans].(Int) }
func (s *Properties) GetWidows() Int                   { return s[PWidows].(Int) }
func (s *Properties) GetSize() Point                   { return s[PSize].(Point) }
