package types

const (
	// WalletNotLinked marks a patient identity whose wallet has not been attached yet.
	WalletNotLinked = "not-linked"
	// WalletDoctorVerified is recorded for doctors admitted through license verification.
	WalletDoctorVerified = "doctor-verified"
)

// Identity is the locally authenticated user.
type Identity struct {
	Role          Role   `json:"role"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Token         string `json:"token,omitempty"`
}

// WalletLinked reports whether a real wallet address is attached.
func (id Identity) WalletLinked() bool {
	return id.WalletAddress != "" && id.WalletAddress != WalletNotLinked
}

// Merge returns id with every non-empty field of patch applied. Role is never changed.
func (id Identity) Merge(patch IdentityPatch) Identity {
	if patch.Name != "" {
		id.Name = patch.Name
	}
	if patch.Email != "" {
		id.Email = patch.Email
	}
	if patch.WalletAddress != "" {
		id.WalletAddress = patch.WalletAddress
	}
	if patch.Token != "" {
		id.Token = patch.Token
	}
	return id
}

// LoginRequest carries the fields accepted by a login action.
type LoginRequest struct {
	Role          Role
	Name          string
	Email         string
	WalletAddress string
	Token         string
}

// IdentityPatch is a partial identity merged into the current one.
//
// Role may be set only to the current role; MustPersist makes storage failures
// visible to the caller instead of only being logged.
type IdentityPatch struct {
	Role          Role
	Name          string
	Email         string
	WalletAddress string
	Token         string
	MustPersist   bool
}
