package document

// Status is the lifecycle state of a governed document.
type Status string

const (
	// StatusActive marks a document currently in force.
	StatusActive Status = "active"
	// StatusDeprecated marks a document superseded but retained.
	StatusDeprecated Status = "deprecated"
	// StatusFrozen marks a document locked against further revision.
	StatusFrozen Status = "frozen"
)

// IsValid returns true if the status is a known lifecycle state.
// Matching is case-sensitive exact match.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDeprecated, StatusFrozen:
		return true
	default:
		return false
	}
}

// Statuses returns all valid lifecycle states in declaration order.
func Statuses() []Status {
	return []Status{StatusActive, StatusDeprecated, StatusFrozen}
}

// ContractType classifies a governed document.
type ContractType string

const (
	// ContractPolicy is a governance policy document.
	ContractPolicy ContractType = "policy"
	// ContractIntent is a statement-of-intent document.
	ContractIntent ContractType = "intent"
	// ContractExecution is an execution contract document.
	ContractExecution ContractType = "execution_contract"
)

// IsValid returns true if the contract type is a known classification.
func (t ContractType) IsValid() bool {
	switch t {
	case ContractPolicy, ContractIntent, ContractExecution:
		return true
	default:
		return false
	}
}

// ContractTypes returns all valid classifications in declaration order.
func ContractTypes() []ContractType {
	return []ContractType{ContractPolicy, ContractIntent, ContractExecution}
}

// Record is a single document entry in the strict registry.
// Exactly one Record exists per unique doc_key in a valid registry.
// Field order matches the persisted registry JSON.
type Record struct {
	DocKey            string       `json:"doc_key"`
	Path              string       `json:"path"`
	Semver            string       `json:"semver"`
	Status            Status       `json:"status"`
	EffectiveDate     string       `json:"effective_date"`
	Owner             string       `json:"owner"`
	ContractType      ContractType `json:"contract_type"`
	SupersedesVersion *string      `json:"supersedes_version"`
}

// Version is the lighter-weight runtime view of a document.
// Produced by the lenient extractor; owner is not required or carried.
type Version struct {
	DocKey        string       `json:"doc_key"`
	Semver        string       `json:"semver"`
	Status        Status       `json:"status"`
	EffectiveDate string       `json:"effective_date"`
	ContractType  ContractType `json:"contract_type"`
	Path          string       `json:"path"`
}
