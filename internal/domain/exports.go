package domain

import (
	interfaces "aura/internal/domain/interfaces"
	types "aura/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Role                  = types.Role
	Route                 = types.Route
	SessionID             = types.SessionID
	RecordID              = types.RecordID
	Identity              = types.Identity
	LoginRequest          = types.LoginRequest
	IdentityPatch         = types.IdentityPatch
	PatientRecord         = types.PatientRecord
	HandoffSession        = types.HandoffSession
	CreateSessionRequest  = types.CreateSessionRequest
	CreateSessionResponse = types.CreateSessionResponse
	UploadReceipt         = types.UploadReceipt
	PlaceKind             = types.PlaceKind
	PlacesQuery           = types.PlacesQuery
	Place                 = types.Place
	PlacesResult          = types.PlacesResult
	MedicineStatus        = types.MedicineStatus
	MedicineData          = types.MedicineData
	MedicineResult        = types.MedicineResult
	ValidationError       = types.ValidationError
	TransportError        = types.TransportError
	ServerError           = types.ServerError
	PermissionError       = types.PermissionError
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityStore  = interfaces.IdentityStore
	DraftStore     = interfaces.DraftStore
	VaultClient    = interfaces.VaultClient
	SessionReader  = interfaces.SessionReader
	RecordUploader = interfaces.RecordUploader
	Navigator      = interfaces.Navigator
	NavigatorFunc  = interfaces.NavigatorFunc
)

// Constants and sentinels re-exported for callers that only import domain.
const (
	RolePatient = types.RolePatient
	RoleDoctor  = types.RoleDoctor

	RouteWelcome          = types.RouteWelcome
	RouteRoleSelection    = types.RouteRoleSelection
	RoutePatientDashboard = types.RoutePatientDashboard
	RouteDoctorDashboard  = types.RouteDoctorDashboard

	PlaceHospital = types.PlaceHospital
	PlaceDoctor   = types.PlaceDoctor

	MedicineSuccess       = types.MedicineSuccess
	MedicineLowConfidence = types.MedicineLowConfidence
	MedicineError         = types.MedicineError

	WalletNotLinked      = types.WalletNotLinked
	WalletDoctorVerified = types.WalletDoctorVerified
	DefaultSearchRadius  = types.DefaultSearchRadius
)

var (
	ErrNotAuthenticated     = types.ErrNotAuthenticated
	ErrAlreadyAuthenticated = types.ErrAlreadyAuthenticated
	ErrRoleImmutable        = types.ErrRoleImmutable
	ErrInvalidJoinCode      = types.ErrInvalidJoinCode
	ErrSessionNotFound      = types.ErrSessionNotFound
)

// ParseRole converts user input to a Role.
func ParseRole(s string) (Role, error) { return types.ParseRole(s) }
