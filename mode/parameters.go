package mode

// Parameters is the validated bag of inputs a ModeCreator turns into a
// ThreadConfig, grounded on config/mode_parameters.rs.
type Parameters struct {
	TotalJobs     uint64
	MaxLines      *int
	Title         *string
	EmojiSupport  bool
	TitleSupport  bool
	Passthrough   bool
}

// WithMaxLines returns a copy of p with MaxLines set.
func (p Parameters) WithMaxLines(n int) Parameters { p.MaxLines = &n; return p }

// WithTitle returns a copy of p with Title set.
func (p Parameters) WithTitle(title string) Parameters { p.Title = &title; return p }
