package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	Debug     bool
	Context   string
	Source    string
	BatchFile string
	NoAudio   bool

	// LLM flags
	Provider string
	APIKey   string
	Model    string
	Language string

	// Anki flags
	Export       bool
	SaveNote     bool
	DeckName     string
	NoteType     string
	GenerateAnki bool
	AnkiCSV      bool
	OutputDir    string

	// Maintenance flags
	ListModels   bool
	ArchiveAudio bool
	CheckOnly    bool

	// Server flags
	Addr string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Provider: "groq",
		Language: "English",
		DeckName: "Default",
		NoteType: "Basic",
		Addr:     DefaultServerAddr,
	}
}
