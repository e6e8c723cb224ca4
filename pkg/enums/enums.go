package enums

// UserRole distinguishes shoppers from back-office staff.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) String() string { return string(r) }

// OrderStatus models the order lifecycle. Forward movement is strictly
// pending -> processing -> shipped -> completed; cancelled is reachable
// from any non-terminal state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.IsValid() || s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusCompleted
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

// CompatibilityType describes how a part matches vehicles.
type CompatibilityType string

const (
	CompatibilityVIN       CompatibilityType = "vin"
	CompatibilityVehicle   CompatibilityType = "vehicle"
	CompatibilityUniversal CompatibilityType = "universal"
)

func (c CompatibilityType) IsValid() bool {
	switch c {
	case CompatibilityVIN, CompatibilityVehicle, CompatibilityUniversal:
		return true
	}
	return false
}

// PartCategory is the fixed catalog taxonomy.
type PartCategory string

const (
	PartCategoryChemistry     PartCategory = "chemistry"
	PartCategoryAccessories   PartCategory = "accessories"
	PartCategoryOils          PartCategory = "oils"
	PartCategoryTools         PartCategory = "tools"
	PartCategoryWheels        PartCategory = "wheels"
	PartCategoryLamps         PartCategory = "lamps"
	PartCategoryBatteries     PartCategory = "batteries"
	PartCategoryWipers        PartCategory = "wipers"
	PartCategoryEmergencyKits PartCategory = "emergency_kits"
	PartCategoryChargers      PartCategory = "chargers"
)

var partCategories = map[PartCategory]struct{}{
	PartCategoryChemistry:     {},
	PartCategoryAccessories:   {},
	PartCategoryOils:          {},
	PartCategoryTools:         {},
	PartCategoryWheels:        {},
	PartCategoryLamps:         {},
	PartCategoryBatteries:     {},
	PartCategoryWipers:        {},
	PartCategoryEmergencyKits: {},
	PartCategoryChargers:      {},
}

func (c PartCategory) IsValid() bool {
	_, ok := partCategories[c]
	return ok
}

func (c PartCategory) String() string { return string(c) }

// RealtimeEventType tags server-push events on the vehicle stream.
type RealtimeEventType string

const (
	EventServiceRecordAdded  RealtimeEventType = "SERVICE_RECORD_ADDED"
	EventVehicleStateUpdated RealtimeEventType = "VEHICLE_STATE_UPDATED"
)
