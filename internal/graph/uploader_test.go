package graph

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeTransport struct {
	calls int
	body  string
	err   error
	names []string
}

func (f *fakeTransport) Upload(_ context.Context, filename string, content io.Reader) ([]byte, error) {
	f.calls++
	f.names = append(f.names, filename)
	io.Copy(io.Discard, content)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

type recordingDrawer struct {
	payloads []*Payload
	opts     []Options
}

func (d *recordingDrawer) Draw(p *Payload, o Options) error {
	d.payloads = append(d.payloads, p)
	d.opts = append(d.opts, o)
	return nil
}

func rdfFile(name string) File {
	return File{Name: name, Content: strings.NewReader("<a> <b> <c> .")}
}

func TestUploadRequiresExactlyOneFile(t *testing.T) {
	for _, files := range [][]File{nil, {rdfFile("a.ttl"), rdfFile("b.ttl")}} {
		tr := &fakeTransport{}
		d := &recordingDrawer{}
		res := NewUploader(tr, d).UploadAndVisualize(context.Background(), files)

		if res.Alert != MsgSelectFile {
			t.Errorf("files=%d: alert = %q, want %q", len(files), res.Alert, MsgSelectFile)
		}
		if tr.calls != 0 {
			t.Errorf("files=%d: expected no request, got %d", len(files), tr.calls)
		}
		if len(d.payloads) != 0 {
			t.Errorf("files=%d: drawer should not be called", len(files))
		}
	}
}

func TestUploadPassesPayloadUnmodified(t *testing.T) {
	body := `{"nodes":[{"id":"http://x#a","label":"a","color":"#97c2fc","extra":1}],"edges":[{"from":"http://x#a","to":"v","label":"p","arrows":"to"}]}`
	tr := &fakeTransport{body: body}
	d := &recordingDrawer{}

	res := NewUploader(tr, d).UploadAndVisualize(context.Background(), []File{rdfFile("books.rdf")})

	if res.Alert != "" {
		t.Fatalf("unexpected alert %q", res.Alert)
	}
	if len(d.payloads) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(d.payloads))
	}
	if got := string(d.payloads[0].Nodes); got != `[{"id":"http://x#a","label":"a","color":"#97c2fc","extra":1}]` {
		t.Errorf("nodes reshaped: %s", got)
	}
	if tr.names[0] != "books.rdf" {
		t.Errorf("filename = %q", tr.names[0])
	}
	if d.opts[0] != NetworkOptions() {
		t.Errorf("unexpected options %+v", d.opts[0])
	}
}

func TestUploadFailures(t *testing.T) {
	tests := []struct {
		name string
		tr   *fakeTransport
	}{
		{"transport error", &fakeTransport{err: errors.New("connection refused")}},
		{"not json", &fakeTransport{body: "<html>"}},
		{"missing edges", &fakeTransport{body: `{"nodes":[]}`}},
		{"null nodes", &fakeTransport{body: `{"nodes":null,"edges":[]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDrawer{}
			res := NewUploader(tt.tr, d).UploadAndVisualize(context.Background(), []File{rdfFile("x.rdf")})
			if res.Alert != MsgVisualizeError {
				t.Errorf("alert = %q, want %q", res.Alert, MsgVisualizeError)
			}
			if res.Payload != nil {
				t.Error("no payload should be retained on failure")
			}
			if len(d.payloads) != 0 {
				t.Error("drawer should not be called")
			}
		})
	}
}

func TestUploadDrawError(t *testing.T) {
	tr := &fakeTransport{body: `{"nodes":[],"edges":[]}`}
	d := DrawerFunc(func(*Payload, Options) error { return errors.New("no canvas") })

	res := NewUploader(tr, d).UploadAndVisualize(context.Background(), []File{rdfFile("x.rdf")})
	if res.Alert != MsgVisualizeError {
		t.Errorf("alert = %q", res.Alert)
	}
}

func TestNetworkOptionsJSON(t *testing.T) {
	data, err := json.Marshal(NetworkOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"nodes":{"shape":"dot","font":{"color":"white"},"size":16},"physics":{"enabled":true,"stabilization":{"iterations":150}}}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}
