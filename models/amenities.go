package models

// BasicAmenities là danh sách cờ tiện nghi của property.
// Mỗi channel lọc theo tên cờ để dịch sang enum riêng của nó.
type BasicAmenities struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	PropertyID uint `json:"propertyId" gorm:"uniqueIndex"`

	AirConditioning  bool `json:"airConditioning"`
	Breakfast        bool `json:"breakfast"`
	CableTV          bool `json:"cableTv"`
	CarbonMonoxideDetector bool `json:"carbonMonoxideDetector"`
	Doorman          bool `json:"doorman"`
	Dryer            bool `json:"dryer"`
	Elevator         bool `json:"elevator"`
	Essentials       bool `json:"essentials"`
	FireExtinguisher bool `json:"fireExtinguisher"`
	FirstAidKit      bool `json:"firstAidKit"`
	FreeParking      bool `json:"freeParking"`
	Gym              bool `json:"gym"`
	HairDryer        bool `json:"hairDryer"`
	Hangers          bool `json:"hangers"`
	Heating          bool `json:"heating"`
	HotTub           bool `json:"hotTub"`
	IndoorFireplace  bool `json:"indoorFireplace"`
	Iron             bool `json:"iron"`
	Kitchen          bool `json:"kitchen"`
	Laptop           bool `json:"laptop"`
	Pool             bool `json:"pool"`
	Shampoo          bool `json:"shampoo"`
	SmokeDetector    bool `json:"smokeDetector"`
	TV               bool `json:"tv"`
	Washer           bool `json:"washer"`
	WheelchairAccess bool `json:"wheelchairAccess"`
	WirelessInternet bool `json:"wirelessInternet"`
}

// Flags trả về map tên cờ -> giá trị, dùng cho translation layer
func (a *BasicAmenities) Flags() map[string]bool {
	if a == nil {
		return map[string]bool{}
	}
	return map[string]bool{
		"ac":                       a.AirConditioning,
		"breakfast":                a.Breakfast,
		"cable":                    a.CableTV,
		"carbon_monoxide_detector": a.CarbonMonoxideDetector,
		"doorman":                  a.Doorman,
		"dryer":                    a.Dryer,
		"elevator":                 a.Elevator,
		"essentials":               a.Essentials,
		"fire_extinguisher":        a.FireExtinguisher,
		"first_aid_kit":            a.FirstAidKit,
		"free_parking":             a.FreeParking,
		"gym":                      a.Gym,
		"hair_dryer":               a.HairDryer,
		"hangers":                  a.Hangers,
		"heating":                  a.Heating,
		"hot_tub":                  a.HotTub,
		"indoor_fireplace":         a.IndoorFireplace,
		"iron":                     a.Iron,
		"kitchen":                  a.Kitchen,
		"laptop_friendly":          a.Laptop,
		"pool":                     a.Pool,
		"shampoo":                  a.Shampoo,
		"smoke_detector":           a.SmokeDetector,
		"tv":                       a.TV,
		"washer":                   a.Washer,
		"wheelchair_accessible":    a.WheelchairAccess,
		"wireless_internet":        a.WirelessInternet,
	}
}

// CountEnabled đếm số tiện nghi đang bật
func (a *BasicAmenities) CountEnabled() int {
	n := 0
	for _, v := range a.Flags() {
		if v {
			n++
		}
	}
	return n
}

// SetByName bật cờ theo tên channel-side, trả về false nếu không biết tên
func (a *BasicAmenities) SetByName(name string) bool {
	switch name {
	case "ac", "air_conditioning":
		a.AirConditioning = true
	case "breakfast":
		a.Breakfast = true
	case "cable":
		a.CableTV = true
	case "carbon_monoxide_detector":
		a.CarbonMonoxideDetector = true
	case "doorman":
		a.Doorman = true
	case "dryer":
		a.Dryer = true
	case "elevator":
		a.Elevator = true
	case "essentials":
		a.Essentials = true
	case "fire_extinguisher":
		a.FireExtinguisher = true
	case "first_aid_kit":
		a.FirstAidKit = true
	case "free_parking", "free-parking":
		a.FreeParking = true
	case "gym":
		a.Gym = true
	case "hair_dryer", "hair-dryer":
		a.HairDryer = true
	case "hangers":
		a.Hangers = true
	case "heating":
		a.Heating = true
	case "hot_tub":
		a.HotTub = true
	case "indoor_fireplace":
		a.IndoorFireplace = true
	case "iron":
		a.Iron = true
	case "kitchen":
		a.Kitchen = true
	case "laptop_friendly":
		a.Laptop = true
	case "pool":
		a.Pool = true
	case "shampoo":
		a.Shampoo = true
	case "smoke_detector":
		a.SmokeDetector = true
	case "tv":
		a.TV = true
	case "washer":
		a.Washer = true
	case "wheelchair_accessible":
		a.WheelchairAccess = true
	case "wireless_internet", "wifi":
		a.WirelessInternet = true
	default:
		return false
	}
	return true
}
