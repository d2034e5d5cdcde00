// Package medicine sends a photo of a medicine pack for identification and
// turns the answer into what the patient is shown.
package medicine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"aura/internal/domain"
)

// Identifier is the backend call used by Service.
type Identifier interface {
	IdentifyMedicine(ctx context.Context, filename string, image io.Reader) (domain.MedicineResult, error)
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".heic": true, ".webp": true}

// Service identifies medicines from photos.
type Service struct {
	client Identifier
	log    *slog.Logger
}

// New returns a Service backed by client.
func New(client Identifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{client: client, log: log}
}

// IdentifyFile uploads the image at path.
func (s *Service) IdentifyFile(ctx context.Context, path string) (View, error) {
	if !imageExts[strings.ToLower(filepath.Ext(path))] {
		return View{}, &domain.ValidationError{Field: "image", Message: "must be a .jpg, .jpeg, .png, .heic or .webp file"}
	}
	f, err := os.Open(path)
	if os.IsPermission(err) {
		return View{}, &domain.PermissionError{Resource: "photo library", Hint: err.Error()}
	}
	if err != nil {
		return View{}, err
	}
	defer f.Close()

	res, err := s.client.IdentifyMedicine(ctx, filepath.Base(path), f)
	if err != nil {
		return View{}, err
	}
	s.log.Info("medicine identified", "status", res.Status)
	return Interpret(res), nil
}

// Field is one labelled value of a confident match.
type Field struct {
	Label string
	Value string
}

// View is the displayable form of a MedicineResult.
type View struct {
	Status       domain.MedicineStatus
	Confidence   *float64
	Fields       []Field
	ClosestMatch string
	Message      string
}

// Interpret selects what to show for res.
//
// A low_confidence answer shows only the closest match; structured fields
// are shown for success alone.
func Interpret(res domain.MedicineResult) View {
	v := View{Status: res.Status, Confidence: res.MatchConfidence, Message: res.Message}
	switch res.Status {
	case domain.MedicineSuccess:
		if d := res.Data; d != nil {
			v.Fields = []Field{
				{"Brand", d.BrandName},
				{"Composition", d.Composition},
				{"Manufacturer", d.Manufacturer},
				{"Price (INR)", priceString(d.PriceINR)},
				{"Pack Size", d.PackSize},
			}
		}
	case domain.MedicineLowConfidence:
		v.ClosestMatch = res.ClosestMatch
	}
	return v
}

// Lines renders v as terminal lines.
func (v View) Lines() []string {
	lines := []string{"Status: " + strings.ReplaceAll(string(v.Status), "_", " ")}
	if v.Confidence != nil && *v.Confidence > 0 {
		lines = append(lines, fmt.Sprintf("Confidence: %g%%", *v.Confidence))
	}
	for _, f := range v.Fields {
		lines = append(lines, f.Label+": "+f.Value)
	}
	if v.ClosestMatch != "" {
		lines = append(lines, "Closest Match Found: "+v.ClosestMatch)
	}
	if v.Message != "" {
		lines = append(lines, v.Message)
	}
	return lines
}

func priceString(p any) string {
	switch x := p.(type) {
	case nil:
		return ""
	case string:
		return "₹" + x
	case float64:
		return fmt.Sprintf("₹%g", x)
	default:
		return fmt.Sprintf("₹%v", x)
	}
}
