package types

// PatientRecord is one health intake submitted into a hand-off session.
type PatientRecord struct {
	ID                 RecordID `json:"id,omitempty"`
	Name               string   `json:"name"`
	Age                string   `json:"age"`
	Symptoms           string   `json:"symptoms"`
	MedicalHistory     string   `json:"medical_history,omitempty"`
	CurrentMedications string   `json:"current_medications,omitempty"`
	Allergies          string   `json:"allergies,omitempty"`
	EmergencyContact   string   `json:"emergency_contact,omitempty"`
	AdditionalNotes    string   `json:"additional_notes,omitempty"`
	Timestamp          string   `json:"timestamp"`
}

// HandoffSession is the server-side view of a doctor's sharing session.
type HandoffSession struct {
	SessionID  SessionID       `json:"session_id"`
	DoctorName string          `json:"doctor_name"`
	CreatedAt  string          `json:"created_at,omitempty"`
	Patients   []PatientRecord `json:"patients"`
}

// CreateSessionRequest is the body of POST /api/vault/create-session/.
type CreateSessionRequest struct {
	DoctorName string `json:"doctor_name"`
}

// CreateSessionResponse is returned by the vault when a session is created.
type CreateSessionResponse struct {
	SessionID  SessionID `json:"session_id"`
	QRURL      string    `json:"qr_url"`
	DoctorName string    `json:"doctor_name,omitempty"`
	CreatedAt  string    `json:"created_at,omitempty"`
}

// UploadReceipt acknowledges a stored patient record.
type UploadReceipt struct {
	ID     RecordID `json:"id"`
	Status string   `json:"status"`
}
