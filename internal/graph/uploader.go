package graph

import (
	"context"
	"fmt"
	"io"

	"github.com/ziadkadry99/bookgraph/internal/logger"
)

// Alerts shown by the uploader.
const (
	MsgSelectFile     = "Please select an RDF file first."
	MsgVisualizeError = "Error visualizing graph."
)

// File is one file picked by the user.
type File struct {
	Name    string
	Content io.Reader
}

// Transport posts an RDF file to the catalog API and returns the raw body.
type Transport interface {
	Upload(ctx context.Context, filename string, content io.Reader) ([]byte, error)
}

// Drawer renders a network. Implementations wrap whatever drawing
// surface the front end has.
type Drawer interface {
	Draw(payload *Payload, opts Options) error
}

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(payload *Payload, opts Options) error

func (f DrawerFunc) Draw(payload *Payload, opts Options) error { return f(payload, opts) }

// UploadResult reports the outcome of one upload. Alert is empty on success.
type UploadResult struct {
	Alert   string
	Payload *Payload
}

// Uploader submits RDF files and hands the returned network to a Drawer.
type Uploader struct {
	transport Transport
	drawer    Drawer
}

// NewUploader creates an uploader.
func NewUploader(transport Transport, drawer Drawer) *Uploader {
	return &Uploader{transport: transport, drawer: drawer}
}

// UploadAndVisualize uploads the single selected file and draws the result.
// Anything other than exactly one file is rejected without a request.
func (u *Uploader) UploadAndVisualize(ctx context.Context, files []File) UploadResult {
	if len(files) != 1 {
		return UploadResult{Alert: MsgSelectFile}
	}

	payload, err := u.visualize(ctx, files[0])
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Str("file", files[0].Name).Msg("error uploading RDF")
		return UploadResult{Alert: MsgVisualizeError}
	}
	return UploadResult{Payload: payload}
}

func (u *Uploader) visualize(ctx context.Context, f File) (*Payload, error) {
	body, err := u.transport.Upload(ctx, f.Name, f.Content)
	if err != nil {
		return nil, err
	}

	payload, err := ParsePayload(body)
	if err != nil {
		return nil, err
	}

	if err := u.drawer.Draw(payload, NetworkOptions()); err != nil {
		return nil, fmt.Errorf("draw network: %w", err)
	}
	return payload, nil
}
