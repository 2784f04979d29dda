package inspection

// Record is a fully normalized inspection. It is immutable once parsed and
// owned by the generation request that produced it.
type Record struct {
	ID        string
	Status    string
	Client    Client
	Inspector Inspector
	Property  Property
	Schedule  Schedule
	Company   string
	Sections  []Section
}

// Client identifies the party the inspection was performed for.
type Client struct {
	Name     string
	Email    string
	Phone    string
	UserType string
}

// Inspector identifies the licensed inspector. The upstream producer uses the
// inspector id as the license identifier.
type Inspector struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Property holds the inspected property's address components.
type Property struct {
	Street        string
	City          string
	State         string
	Zipcode       string
	FullAddress   string
	SquareFootage int
}

// Schedule holds epoch-millisecond timestamps for the inspection appointment.
type Schedule struct {
	Date      int64
	StartTime int64
	EndTime   int64
}

// Section is an ordered group of line items. Final section sequence is
// determined by Order, not by position in the source document.
type Section struct {
	ID            string
	Name          string
	SectionNumber string
	Order         int
	Items         []LineItem
}

// LineItem is a single inspected component within a section.
type LineItem struct {
	ID        string
	Name      string
	Title     string
	Order     int
	Status    string
	Deficient bool
	Comment   string
	Photos    []string
	Videos    []string
}

// Label returns the display label used in warnings and comment values.
func (it LineItem) Label() string {
	if it.Name != "" {
		return it.Name
	}
	return it.Title
}
