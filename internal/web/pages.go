package web

import (
	"bytes"
	"mime/multipart"
	"net/http"

	"github.com/ziadkadry99/bookgraph/internal/catalog"
	"github.com/ziadkadry99/bookgraph/internal/graph"
	"github.com/ziadkadry99/bookgraph/internal/logger"
)

const maxUploadSize = 32 << 20

// indexPage is the data of the list page.
type indexPage struct {
	List  catalog.ListView
	Form  catalog.Form
	Alert string
}

// uploadResponse is what the upload form script receives. Either Alert
// is set or the network fields are.
type uploadResponse struct {
	Alert   string         `json:"alert,omitempty"`
	Payload *graph.Payload `json:"graph,omitempty"`
	Options *graph.Options `json:"options,omitempty"`
}

func (wb *Web) handleIndex(w http.ResponseWriter, r *http.Request) {
	wb.render(w, "index.html", indexPage{List: wb.renderer.LoadBooks(r.Context())})
}

func (wb *Web) handleDetails(w http.ResponseWriter, r *http.Request) {
	wb.render(w, "book_details.html", wb.renderer.LoadDetails(r.Context(), r.URL.Query()))
}

func (wb *Web) handleAddBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	res := wb.renderer.AddBook(ctx, catalog.FormFromValues(r.PostForm))
	wb.render(w, "index.html", indexPage{
		List:  wb.renderer.LoadBooks(ctx),
		Form:  res.Form,
		Alert: res.Alert,
	})
}

func (wb *Web) handleUpload(w http.ResponseWriter, r *http.Request) {
	var headers []*multipart.FileHeader
	if err := r.ParseMultipartForm(maxUploadSize); err == nil {
		headers = r.MultipartForm.File["file"]
	}

	var files []graph.File
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, `{"error":"reading upload"}`, http.StatusBadRequest)
			return
		}
		defer f.Close()
		files = append(files, graph.File{Name: fh.Filename, Content: f})
	}

	var opts graph.Options
	drawer := graph.DrawerFunc(func(_ *graph.Payload, o graph.Options) error {
		opts = o
		return nil
	})

	res := graph.NewUploader(wb.transport, drawer).UploadAndVisualize(r.Context(), files)
	if res.Alert != "" {
		writeJSON(w, http.StatusOK, uploadResponse{Alert: res.Alert})
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Payload: res.Payload, Options: &opts})
}

func (wb *Web) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := wb.pages.ExecuteTemplate(&buf, name, data); err != nil {
		log := logger.Get()
		log.Error().Err(err).Str("template", name).Msg("render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
