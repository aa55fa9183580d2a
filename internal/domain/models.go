package domain

import "time"

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"

	AuditInfo    AuditEntryType = "info"
	AuditWarning AuditEntryType = "warning"
)

type UserRole string
type AuditEntryType string

// BusinessSettings is the full configuration document of one business.
// Sections are pointers so that edited versions of the tree can share the
// sections they did not touch. Sector sections are nil when absent.
type BusinessSettings struct {
	General     *GeneralSettings     `json:"general"`
	POSTerminal *POSTerminalSettings `json:"posTerminal"`
	Payment     *PaymentSettings     `json:"payment"`
	Inventory   *InventorySettings   `json:"inventory"`
	Pricing     *PricingSettings     `json:"pricing"`
	Customer    *CustomerSettings    `json:"customer"`
	Employee    *EmployeeSettings    `json:"employee"`
	Taxation    *TaxationSettings    `json:"taxation"`
	Reporting   *ReportingSettings   `json:"reporting"`
	Integration *IntegrationSettings `json:"integration"`
	Security    *SecuritySettings    `json:"security"`

	Restaurant    *RestaurantSettings    `json:"restaurant,omitempty"`
	Hotel         *HotelSettings         `json:"hotel,omitempty"`
	RetailGrocery *RetailGrocerySettings `json:"retailGrocery,omitempty"`
}

// IndustryType returns the declared industry of the business, or "" when
// the general section is missing.
func (s *BusinessSettings) IndustryType() IndustryType {
	if s == nil || s.General == nil {
		return ""
	}
	return s.General.BusinessProfile.IndustryType
}

// MissingSections returns the JSON names of the always-present sections
// that are nil in s, in document order. A nil s is missing all of them.
func (s *BusinessSettings) MissingSections() []string {
	if s == nil {
		s = &BusinessSettings{}
	}
	required := []struct {
		name    string
		present bool
	}{
		{"general", s.General != nil},
		{"posTerminal", s.POSTerminal != nil},
		{"payment", s.Payment != nil},
		{"inventory", s.Inventory != nil},
		{"pricing", s.Pricing != nil},
		{"customer", s.Customer != nil},
		{"employee", s.Employee != nil},
		{"taxation", s.Taxation != nil},
		{"reporting", s.Reporting != nil},
		{"integration", s.Integration != nil},
		{"security", s.Security != nil},
	}
	var missing []string
	for _, r := range required {
		if !r.present {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// AuditEntry is one recorded change to a business's settings.
type AuditEntry struct {
	ID         int64
	BusinessID string
	Actor      string
	Operation  string
	Path       string
	Type       AuditEntryType
	LoggedAt   time.Time
}

type GeneralSettings struct {
	BusinessProfile BusinessProfile  `json:"businessProfile"`
	Locations       []Location       `json:"locations" kind:"loc"`
	Currency        CurrencySettings `json:"currency"`
	TaxDefaults     TaxDefaults      `json:"taxDefaults"`
	Localization    Localization     `json:"localization"`
	Backup          BackupPolicy     `json:"backup"`
	Updates         UpdatePolicy     `json:"updates"`
}

type BusinessProfile struct {
	Name         string       `json:"name"`
	LegalName    string       `json:"legalName"`
	IndustryType IndustryType `json:"industryType" jsonschema:"enum=retail,enum=restaurant,enum=hotel,enum=grocery,enum=salon,enum=other"`
	TaxID        string       `json:"taxId"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Website      string       `json:"website"`
	Address      Address      `json:"address"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Location struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Address        Address `json:"address"`
	Phone          string  `json:"phone"`
	IsMainLocation bool    `json:"isMainLocation"`
	Active         bool    `json:"active"`
}

type CurrencySettings struct {
	Code           string `json:"code"`
	Symbol         string `json:"symbol"`
	DecimalPlaces  int    `json:"decimalPlaces" jsonschema:"minimum=0,maximum=4"`
	SymbolPosition string `json:"symbolPosition" jsonschema:"enum=before,enum=after"`
}

type TaxDefaults struct {
	DefaultTaxRate   float64 `json:"defaultTaxRate" jsonschema:"minimum=0,maximum=100"`
	PricesIncludeTax bool    `json:"pricesIncludeTax"`
}

type Localization struct {
	Language   string `json:"language"`
	Timezone   string `json:"timezone"`
	DateFormat string `json:"dateFormat"`
	TimeFormat string `json:"timeFormat" jsonschema:"enum=12h,enum=24h"`
}

type BackupPolicy struct {
	AutoBackup    bool   `json:"autoBackup"`
	Frequency     string `json:"frequency" jsonschema:"enum=hourly,enum=daily,enum=weekly"`
	RetentionDays int    `json:"retentionDays" jsonschema:"minimum=0"`
}

type UpdatePolicy struct {
	AutoUpdate bool   `json:"autoUpdate"`
	Channel    string `json:"channel" jsonschema:"enum=stable,enum=beta"`
}
