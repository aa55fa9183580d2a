package domain

import "strings"

type IndustryType string

const (
	IndustryRetail     IndustryType = "retail"
	IndustryRestaurant IndustryType = "restaurant"
	IndustryHotel      IndustryType = "hotel"
	IndustryGrocery    IndustryType = "grocery"
	IndustrySalon      IndustryType = "salon"
	IndustryOther      IndustryType = "other"
)

// SectorSection names one of the optional industry-specific sections by its
// JSON key in BusinessSettings.
type SectorSection string

const (
	SectorRestaurant    SectorSection = "restaurant"
	SectorHotel         SectorSection = "hotel"
	SectorRetailGrocery SectorSection = "retailGrocery"
)

// AllSectorSections lists every optional section in document order.
var AllSectorSections = []SectorSection{SectorRestaurant, SectorHotel, SectorRetailGrocery}

var sectorsByIndustry = map[IndustryType]SectorSection{
	IndustryRestaurant: SectorRestaurant,
	IndustryHotel:      SectorHotel,
	IndustryGrocery:    SectorRetailGrocery,
}

// ParseIndustryType normalizes a declared industry type.
func ParseIndustryType(raw string) IndustryType {
	return IndustryType(strings.ToLower(strings.TrimSpace(raw)))
}

// ActiveSectors returns the sector sections relevant to an industry type.
// Industries without a sector section get an empty, non-nil slice.
func ActiveSectors(t IndustryType) []SectorSection {
	if s, ok := sectorsByIndustry[ParseIndustryType(string(t))]; ok {
		return []SectorSection{s}
	}
	return []SectorSection{}
}

// IsSectorActive reports whether section applies to the industry type.
func IsSectorActive(t IndustryType, section SectorSection) bool {
	for _, s := range ActiveSectors(t) {
		if s == section {
			return true
		}
	}
	return false
}

// PresentSectors returns the sector sections that are populated in s,
// regardless of the declared industry.
func (s *BusinessSettings) PresentSectors() []SectorSection {
	var out []SectorSection
	for _, sec := range AllSectorSections {
		if s.hasSector(sec) {
			out = append(out, sec)
		}
	}
	return out
}

func (s *BusinessSettings) hasSector(sec SectorSection) bool {
	if s == nil {
		return false
	}
	switch sec {
	case SectorRestaurant:
		return s.Restaurant != nil
	case SectorHotel:
		return s.Hotel != nil
	case SectorRetailGrocery:
		return s.RetailGrocery != nil
	}
	return false
}

// WithSectorDefaults returns s with the active sector section filled in with
// defaults when it is absent. Inactive sections are kept as they are. When
// nothing needs to change s itself is returned.
func (s *BusinessSettings) WithSectorDefaults() *BusinessSettings {
	if s == nil {
		return nil
	}
	active := ActiveSectors(s.IndustryType())
	if len(active) == 0 {
		return s
	}
	out := *s
	changed := false
	for _, sec := range active {
		switch sec {
		case SectorRestaurant:
			if out.Restaurant == nil {
				out.Restaurant = DefaultRestaurantSettings()
				changed = true
			}
		case SectorHotel:
			if out.Hotel == nil {
				out.Hotel = DefaultHotelSettings()
				changed = true
			}
		case SectorRetailGrocery:
			if out.RetailGrocery == nil {
				out.RetailGrocery = DefaultRetailGrocerySettings()
				changed = true
			}
		}
	}
	if !changed {
		return s
	}
	return &out
}

type RestaurantSettings struct {
	Tables   TableManagement  `json:"tables"`
	Kitchen  KitchenSettings  `json:"kitchen"`
	Service  ServiceCharges   `json:"service"`
	Ordering OrderingSettings `json:"ordering"`
}

type TableManagement struct {
	Enabled           bool `json:"enabled"`
	DefaultTableCount int  `json:"defaultTableCount" jsonschema:"minimum=0"`
	ShowFloorPlan     bool `json:"showFloorPlan"`
}

type KitchenSettings struct {
	KitchenDisplay  bool `json:"kitchenDisplay"`
	PrintTickets    bool `json:"printTickets"`
	CoursingEnabled bool `json:"coursingEnabled"`
}

type ServiceCharges struct {
	ServiceChargePercent  float64 `json:"serviceChargePercent" jsonschema:"minimum=0,maximum=100"`
	AutoGratuityPartySize int     `json:"autoGratuityPartySize" jsonschema:"minimum=0"`
	AutoGratuityPercent   float64 `json:"autoGratuityPercent" jsonschema:"minimum=0,maximum=100"`
}

type OrderingSettings struct {
	AllowOpenTabs  bool `json:"allowOpenTabs"`
	OnlineOrdering bool `json:"onlineOrdering"`
	Takeaway       bool `json:"takeaway"`
}

type HotelSettings struct {
	CheckInTime  string             `json:"checkInTime"`
	CheckOutTime string             `json:"checkOutTime"`
	RoomTypes    []RoomType         `json:"roomTypes" kind:"room-type"`
	Housekeeping HousekeepingPolicy `json:"housekeeping"`
	Reservations ReservationPolicy  `json:"reservations"`
}

type RoomType struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	BaseRate float64 `json:"baseRate" jsonschema:"minimum=0"`
	Capacity int     `json:"capacity" jsonschema:"minimum=1"`
}

type HousekeepingPolicy struct {
	Enabled       bool `json:"enabled"`
	DailyCleaning bool `json:"dailyCleaning"`
}

type ReservationPolicy struct {
	AllowOverbooking  bool    `json:"allowOverbooking"`
	DepositPercent    float64 `json:"depositPercent" jsonschema:"minimum=0,maximum=100"`
	CancellationHours int     `json:"cancellationHours" jsonschema:"minimum=0"`
}

type RetailGrocerySettings struct {
	Scale          ScaleIntegration `json:"scale"`
	PLU            PLUSettings      `json:"plu"`
	ExpiryTracking ExpiryTracking   `json:"expiryTracking"`
	AgeRestriction AgeRestriction   `json:"ageRestriction"`
	EBTEnabled     bool             `json:"ebtEnabled"`
}

type ScaleIntegration struct {
	Enabled bool   `json:"enabled"`
	Port    string `json:"port"`
	Unit    string `json:"unit" jsonschema:"enum=kg,enum=lb"`
}

type PLUSettings struct {
	Enabled bool `json:"enabled"`
	Length  int  `json:"length" jsonschema:"minimum=4,maximum=5"`
}

type ExpiryTracking struct {
	Enabled        bool `json:"enabled"`
	WarnDaysBefore int  `json:"warnDaysBefore" jsonschema:"minimum=0"`
}

type AgeRestriction struct {
	Enabled    bool `json:"enabled"`
	MinimumAge int  `json:"minimumAge" jsonschema:"minimum=0"`
}
