package intent

// Intent is the classified purpose of an incoming question.
type Intent string

// Intent values. Retrieval runs only for Resource.
const (
	Greeting    Intent = "greeting"
	Educational Intent = "educational"
	Resource    Intent = "resource"
)

func (i Intent) String() string { return string(i) }

// NeedsRetrieval reports whether the catalog should be scored for this intent.
func (i Intent) NeedsRetrieval() bool { return i == Resource }
