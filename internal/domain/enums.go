package domain

type CrewSource string

const (
	// CrewDerived rows are computed from the department's ramp parameters.
	CrewDerived CrewSource = "derived"
	// CrewAuthoritative rows were taken verbatim from an imported table.
	CrewAuthoritative CrewSource = "authoritative"
)

type ItemKind string

const (
	ItemPhase      ItemKind = "phase"
	ItemDepartment ItemKind = "department"
)

// ValidItemKinds is the canonical set of accepted item kind strings.
var ValidItemKinds = map[string]bool{
	"phase": true, "department": true,
}

// ValidCrewSources is the canonical set of accepted crew source strings.
var ValidCrewSources = map[string]bool{
	"derived": true, "authoritative": true,
}

type Boundary string

const (
	BoundaryStart Boundary = "start"
	BoundaryEnd   Boundary = "end"
)

// MonthAbbrevs lists the canonical month label prefixes in calendar order.
var MonthAbbrevs = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}
