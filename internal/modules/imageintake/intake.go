package imageintake

import "context"

// Phase is the lifecycle of one image field.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSelected   Phase = "selected"
	PhaseProcessing Phase = "processing"
	PhaseReady      Phase = "ready"
	PhaseFailed     Phase = "failed"
)

// Intake is the image state of a product form: either a selected file
// (compressed into Asset) or a typed URL, never both.
type Intake struct {
	Phase Phase

	// UI feedback flags; both true only while Compress runs.
	Compressing bool
	Converting  bool

	Filename string
	Asset    *Asset

	// TypedURL is a URL entered by hand. A typed data URL is kept here as
	// well and also exposed through Base64.
	TypedURL string

	Preview string
	Base64  string
	Error   string

	pending *Source // accepted, not yet processed
}

// Select accepts and processes a file in one step.
func (in *Intake) Select(ctx context.Context, src Source) error {
	if err := in.Accept(src); err != nil {
		return err
	}
	return in.Process(ctx)
}

// Accept takes a newly picked file into the Selected phase. An oversized
// file is rejected before any state changes.
func (in *Intake) Accept(src Source) error {
	if err := CheckSize(src.Size); err != nil {
		in.Error = Message(err)
		return err
	}
	in.pending = &src
	in.Phase = PhaseSelected
	in.Error = ""
	return nil
}

// Process compresses the accepted file. On success it becomes the active
// image and the typed URL is cleared. On failure the previous image, if
// any, stays both previewed and submitted.
func (in *Intake) Process(ctx context.Context) error {
	src := in.pending
	in.pending = nil
	if src == nil {
		return ErrNoFile
	}

	in.Phase = PhaseProcessing
	in.Compressing, in.Converting = true, true
	defer func() { in.Compressing, in.Converting = false, false }()

	asset, err := Compress(ctx, *src)
	if err != nil {
		in.Phase = PhaseFailed
		in.Error = Message(err)
		return err
	}

	in.Phase = PhaseReady
	in.Filename = src.Filename
	in.TypedURL = ""
	in.Asset = &asset
	in.Preview = asset.DataURL
	in.Base64 = asset.DataURL
	in.Error = ""
	return nil
}

// SetURL switches the field to a typed URL and drops any selected file.
// An empty value leaves the current preview alone.
func (in *Intake) SetURL(u string) {
	in.TypedURL = u
	if u == "" {
		return
	}
	in.Phase = PhaseIdle
	in.Filename = ""
	in.Asset = nil
	in.pending = nil
	in.Preview = u
	in.Error = ""
	if IsDataURL(u) {
		in.Base64 = u
	} else {
		in.Base64 = ""
	}
}

// Restore loads the stored image of a product being edited. The stored
// value fills the URL field; blanking that field later keeps the preview, and
// the product form then leaves the stored image untouched.
func (in *Intake) Restore(u string) {
	*in = Intake{Phase: PhaseIdle}
	if u == "" {
		return
	}
	in.TypedURL = u
	in.Preview = u
	if IsDataURL(u) {
		in.Base64 = u
	}
}

// Clear resets every derived field.
func (in *Intake) Clear() {
	*in = Intake{Phase: PhaseIdle}
}

// HasFile reports whether a selected file is the active source.
func (in *Intake) HasFile() bool { return in.Asset != nil }

// Value is the image URL to submit: the compressed data URL when a file is
// active, otherwise the typed URL.
func (in *Intake) Value() string {
	if in.Asset != nil {
		return in.Asset.DataURL
	}
	return in.TypedURL
}
