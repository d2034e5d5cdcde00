package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"aura/internal/domain"
	"aura/internal/services/handoff"
)

func vaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Share intake records between patients and doctors",
	}
	cmd.AddCommand(vaultOpenCmd(), vaultWatchCmd(), vaultShareCmd(), vaultDraftCmd())
	return cmd
}

func vaultOpenCmd() *cobra.Command {
	var name, pngPath string
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a session and show its QR code to patients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				id, _ := appCtx.Session.Current().Identity()
				name = id.Name
			}
			h, err := appCtx.Doctor.CreateSession(cmd.Context(), name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s opened for %s\n\n", h.SessionID, h.DoctorName)
			fmt.Fprint(out, h.QR.Terminal())
			fmt.Fprintf(out, "\nJoin link: %s\n", h.JoinURL)

			if pngPath != "" {
				b, err := h.QR.PNG(256)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, b, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(out, "QR code written to %s\n", pngPath)
			}
			if noWatch {
				return nil
			}
			return watch(cmd, h.SessionID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name shown to patients (default: your profile name)")
	cmd.Flags().StringVar(&pngPath, "png", "", "also write the QR code to this PNG file")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "exit instead of watching for records")
	return withRole(cmd, areaDoctor)
}

func vaultWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <session-id>",
		Short: "Print patient records as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd, domain.SessionID(strings.TrimSpace(args[0])))
		},
	}
	return withRole(cmd, areaDoctor)
}

// watch polls id until the command context ends.
func watch(cmd *cobra.Command, id domain.SessionID) error {
	out := cmd.OutOrStdout()
	var mu sync.Mutex

	p := appCtx.NewPoller(id)
	p.Subscribe(func(s handoff.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		for _, rec := range s.New {
			printRecord(out, rec)
		}
	})
	fmt.Fprintf(out, "Waiting for patients (every %s). Press Ctrl+C to stop.\n", appCtx.Config.PollInterval)

	p.Start(cmd.Context())
	<-cmd.Context().Done()
	p.Stop()

	if s, ok := p.Latest(); ok {
		fmt.Fprintf(out, "%d record(s) received.\n", len(s.Session.Patients))
	}
	return nil
}

func printRecord(w io.Writer, rec domain.PatientRecord) {
	fmt.Fprintf(w, "\n== %s (age %s) ==\n", rec.Name, rec.Age)
	fields := []struct{ label, value string }{
		{"Received", rec.Timestamp},
		{"Symptoms", rec.Symptoms},
		{"History", rec.MedicalHistory},
		{"Medications", rec.CurrentMedications},
		{"Allergies", rec.Allergies},
		{"Emergency contact", rec.EmergencyContact},
		{"Notes", rec.AdditionalNotes},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(w, "%-18s %s\n", f.label+":", f.value)
		}
	}
}

func vaultShareCmd() *cobra.Command {
	var joinURL, qrPath string
	var form domain.PatientRecord
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Send your intake record to a doctor's session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The form is kept until an upload succeeds, whatever fails first.
			rec := mergeDraft(cmd, form)
			if err := appCtx.Drafts.SaveDraft(rec); err != nil {
				appCtx.Log.Warn("failed to save intake draft", "err", err)
			}
			if err := handoff.ValidateRecord(rec); err != nil {
				return err
			}
			id, err := scanSession(joinURL, qrPath)
			if err != nil {
				return err
			}

			receipt, err := appCtx.Patient.SubmitRecord(cmd.Context(), id, rec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shared with the doctor (record %s).\n", receipt.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&joinURL, "url", "", "join link from the doctor's QR code")
	f.StringVar(&qrPath, "qr", "", "photo or screenshot of the doctor's QR code")
	f.StringVar(&form.Name, "name", "", "full name")
	f.StringVar(&form.Age, "age", "", "age")
	f.StringVar(&form.Symptoms, "symptoms", "", "current symptoms")
	f.StringVar(&form.MedicalHistory, "history", "", "medical history")
	f.StringVar(&form.CurrentMedications, "medications", "", "current medications")
	f.StringVar(&form.Allergies, "allergies", "", "allergies")
	f.StringVar(&form.EmergencyContact, "emergency-contact", "", "emergency contact")
	f.StringVar(&form.AdditionalNotes, "notes", "", "anything else the doctor should know")
	cmd.MarkFlagsMutuallyExclusive("url", "qr")
	return withRole(cmd, areaPatient)
}

func scanSession(joinURL, qrPath string) (domain.SessionID, error) {
	switch {
	case joinURL != "":
		return appCtx.Patient.ScanJoinCode(joinURL)
	case qrPath != "":
		f, err := os.Open(qrPath)
		if os.IsPermission(err) {
			return "", &domain.PermissionError{Resource: "camera", Hint: err.Error()}
		}
		if err != nil {
			return "", err
		}
		defer f.Close()
		return appCtx.Patient.ScanJoinImage(f)
	default:
		return "", &domain.ValidationError{Field: "url", Message: "pass --url or --qr to join a session"}
	}
}

// mergeDraft fills the fields not given on the command line from the saved draft.
func mergeDraft(cmd *cobra.Command, form domain.PatientRecord) domain.PatientRecord {
	draft, ok, err := appCtx.Drafts.LoadDraft()
	if err != nil {
		appCtx.Log.Warn("failed to load intake draft", "err", err)
	}
	if !ok {
		return form
	}
	flags := cmd.Flags()
	pick := func(flag, given, saved string) string {
		if flags.Changed(flag) {
			return given
		}
		return saved
	}
	return domain.PatientRecord{
		Name:               pick("name", form.Name, draft.Name),
		Age:                pick("age", form.Age, draft.Age),
		Symptoms:           pick("symptoms", form.Symptoms, draft.Symptoms),
		MedicalHistory:     pick("history", form.MedicalHistory, draft.MedicalHistory),
		CurrentMedications: pick("medications", form.CurrentMedications, draft.CurrentMedications),
		Allergies:          pick("allergies", form.Allergies, draft.Allergies),
		EmergencyContact:   pick("emergency-contact", form.EmergencyContact, draft.EmergencyContact),
		AdditionalNotes:    pick("notes", form.AdditionalNotes, draft.AdditionalNotes),
	}
}

func vaultDraftCmd() *cobra.Command {
	var discard bool
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Show or discard the saved intake draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if discard {
				if err := appCtx.Drafts.ClearDraft(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Draft discarded.")
				return nil
			}
			rec, ok, err := appCtx.Drafts.LoadDraft()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "No saved draft.")
				return nil
			}
			printRecord(out, rec)
			return nil
		},
	}
	cmd.Flags().BoolVar(&discard, "clear", false, "discard the draft")
	return withRole(cmd, areaPatient)
}
