package domain

// ItemType distinguishes the two kinds of stock the shop tracks.
type ItemType string

const (
	ItemTypePhone     ItemType = "phone"
	ItemTypeAccessory ItemType = "accessory"
)

func (t ItemType) String() string { return string(t) }

func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypePhone, ItemTypeAccessory:
		return true
	}
	return false
}

// PhoneStatus is the lifecycle state of a single phone unit.
type PhoneStatus string

const (
	PhoneStatusInStock     PhoneStatus = "in_stock"
	PhoneStatusSold        PhoneStatus = "sold"
	PhoneStatusTransferred PhoneStatus = "transferred"
	PhoneStatusDamaged     PhoneStatus = "damaged"
	PhoneStatusUnavailable PhoneStatus = "unavailable"
	PhoneStatusReturned    PhoneStatus = "returned"
)

func (s PhoneStatus) String() string { return string(s) }

func (s PhoneStatus) IsValid() bool {
	switch s {
	case PhoneStatusInStock, PhoneStatusSold, PhoneStatusTransferred,
		PhoneStatusDamaged, PhoneStatusUnavailable, PhoneStatusReturned:
		return true
	}
	return false
}

// AccessoryStatus is the availability state of an accessory stock row.
type AccessoryStatus string

const (
	AccessoryStatusInStock     AccessoryStatus = "in_stock"
	AccessoryStatusOutOfStock  AccessoryStatus = "out_of_stock"
	AccessoryStatusUnavailable AccessoryStatus = "unavailable"
)

func (s AccessoryStatus) String() string { return string(s) }

func (s AccessoryStatus) IsValid() bool {
	switch s {
	case AccessoryStatusInStock, AccessoryStatusOutOfStock, AccessoryStatusUnavailable:
		return true
	}
	return false
}

// PaymentMethod records how a customer paid.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodCredit      PaymentMethod = "credit"
)

func (m PaymentMethod) String() string { return string(m) }

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodCard, PaymentMethodCredit:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleEmployee UserRole = "employee"
	UserRoleAdmin    UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleEmployee, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// ActivityAction is the action_type tag written to the activity log.
type ActivityAction string

const (
	ActionAddPhone                 ActivityAction = "add_phone"
	ActionAddAccessory             ActivityAction = "add_accessory"
	ActionUpdateAccessory          ActivityAction = "update_accessory"
	ActionSellPhone                ActivityAction = "sell_phone"
	ActionSellAccessory            ActivityAction = "sell_accessory"
	ActionTransferPhone            ActivityAction = "transfer_phone"
	ActionTransferAccessory        ActivityAction = "transfer_accessory"
	ActionDeletePhone              ActivityAction = "delete_phone"
	ActionDeleteAccessory          ActivityAction = "delete_accessory"
	ActionMarkUnavailablePhone     ActivityAction = "mark_unavailable_phone"
	ActionMarkUnavailableAccessory ActivityAction = "mark_unavailable_accessory"
	ActionAddUser                  ActivityAction = "add_user"
	ActionDeactivateUser           ActivityAction = "deactivate_user"
	ActionReactivateUser           ActivityAction = "reactivate_user"
	ActionChangeRole               ActivityAction = "change_role"
	ActionLogin                    ActivityAction = "login"
	ActionAcceptInvite             ActivityAction = "accept_invite"
	ActionChangePassword           ActivityAction = "change_password"
)

func (a ActivityAction) String() string { return string(a) }

func (a ActivityAction) IsValid() bool {
	switch a {
	case ActionAddPhone, ActionAddAccessory, ActionUpdateAccessory,
		ActionSellPhone, ActionSellAccessory,
		ActionTransferPhone, ActionTransferAccessory,
		ActionDeletePhone, ActionDeleteAccessory,
		ActionMarkUnavailablePhone, ActionMarkUnavailableAccessory,
		ActionAddUser, ActionDeactivateUser, ActionReactivateUser, ActionChangeRole,
		ActionLogin, ActionAcceptInvite, ActionChangePassword:
		return true
	}
	return false
}

// EntityType identifies what an activity entry refers to.
type EntityType string

const (
	EntityTypePhone     EntityType = "phone"
	EntityTypeAccessory EntityType = "accessory"
	EntityTypeSale      EntityType = "sale"
	EntityTypeTransfer  EntityType = "transfer"
	EntityTypeUser      EntityType = "user"
)

func (e EntityType) String() string { return string(e) }
