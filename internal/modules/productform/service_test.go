package productform

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/catalogapi/catalogfake"
	"lafelle.com/app/internal/modules/imageintake"
	"lafelle.com/app/internal/shared/apperr"
	"lafelle.com/app/internal/storage"
)

type env struct {
	fake  *catalogfake.Server
	svc   *Service
	ctx   context.Context
	catID string
}

func setup(t *testing.T, store storage.Storage) env {
	t.Helper()
	fake := catalogfake.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	client := catalogapi.New(srv.URL, 5*time.Second)
	fake.AddUser("admin@lafelle.com", "secret", "Admin", "admin")
	res, err := client.Login(context.Background(), "admin@lafelle.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return env{
		fake:  fake,
		svc:   NewService(client, store, nil),
		ctx:   catalogapi.WithToken(context.Background(), res.Token),
		catID: fake.AddCategory("Roses", "Fresh roses"),
	}
}

func pngSource(t *testing.T, w, h int) imageintake.Source {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return imageintake.Source{Filename: "photo.png", Size: int64(buf.Len()), Body: &buf}
}

func filled(e env) *Form {
	f := New(nil)
	_ = f.SetField("name", "Red Roses")
	_ = f.SetField("description", "A dozen red roses")
	_ = f.SetField("price", "49.90")
	_ = f.SetField("category", e.catID)
	return f
}

func TestValidateEmptyForm(t *testing.T) {
	f := New(nil)
	if f.Validate() {
		t.Fatal("empty form validated")
	}
	want := map[string]string{
		"name":        MsgName,
		"description": MsgDescription,
		"price":       MsgPrice,
		"category":    MsgCategory,
		"image":       MsgImage,
	}
	for k, v := range want {
		if f.Errors[k] != v {
			t.Errorf("Errors[%q] = %q, want %q", k, f.Errors[k], v)
		}
	}
}

func TestValidatePrice(t *testing.T) {
	cases := map[string]bool{
		"12.50": true,
		"3":     true,
		"0":     false,
		"-4":    false,
		"abc":   false,
		"  ":    false,
	}
	for price, ok := range cases {
		f := New(nil)
		_ = f.SetField("name", "n")
		_ = f.SetField("description", "d")
		_ = f.SetField("category", "c")
		f.SetImageURL("https://cdn.example.com/a.jpg")
		_ = f.SetField("price", price)
		if got := f.Validate(); got != ok {
			t.Errorf("price %q: Validate() = %v, errors %v", price, got, f.Errors)
		}
		if !ok && f.Errors["price"] != MsgPrice {
			t.Errorf("price %q: message %q", price, f.Errors["price"])
		}
	}
}

func TestSetFieldClearsError(t *testing.T) {
	f := New(nil)
	f.Validate()
	if err := f.SetField("name", "Tulips"); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.Errors["name"]; ok {
		t.Fatal("name error not cleared")
	}
	if err := f.SetField("color", "red"); err == nil {
		t.Fatal("unknown field accepted")
	}
	if err := f.SetField("category", AddNewCategory); err != nil || !f.AddingCategory || f.Category != "" {
		t.Fatalf("add-new: %v %+v", err, f)
	}
}

func TestMissingCategoryMakesNoRequest(t *testing.T) {
	e := setup(t, nil)
	f := filled(e)
	f.Category = ""
	f.SetImageURL("https://cdn.example.com/roses.jpg")

	before := e.fake.TotalRequests()
	_, err := e.svc.Submit(e.ctx, f)
	if !apperr.Is(err, apperr.Invalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	if f.Errors["category"] != MsgCategory {
		t.Fatalf("Errors = %v", f.Errors)
	}
	if got := e.fake.TotalRequests(); got != before {
		t.Fatalf("requests went from %d to %d", before, got)
	}
}

func TestSubmitCreateWithFile(t *testing.T) {
	e := setup(t, nil)
	f := filled(e)
	f.SetImageURL("https://cdn.example.com/typed.jpg")

	if err := f.SelectFile(context.Background(), pngSource(t, 1200, 900)); err != nil {
		t.Fatalf("SelectFile() error = %v", err)
	}
	if f.Image.TypedURL != "" {
		t.Fatal("typed URL survived file selection")
	}

	p, err := e.svc.Submit(e.ctx, f)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	img := e.fake.ProductImage(p.ID)
	if img == nil || !strings.HasPrefix(*img, imageintake.DataURLPrefix) {
		t.Fatalf("stored image = %v", img)
	}
	if e.fake.Requests("POST /v1/products/add") != 1 {
		t.Fatal("create endpoint not hit once")
	}
}

func TestSubmitEditKeepsStoredImage(t *testing.T) {
	e := setup(t, nil)
	id := e.fake.AddProduct("Lilies", "White lilies", "30", e.catID, "https://cdn.example.com/lilies.jpg")

	f, err := e.svc.LoadForEdit(e.ctx, id)
	if err != nil {
		t.Fatalf("LoadForEdit() error = %v", err)
	}
	if !f.Editing() || f.Category != e.catID || f.Image.Preview != "https://cdn.example.com/lilies.jpg" {
		t.Fatalf("restored form = %+v", f)
	}

	f.SetImageURL("")
	_ = f.SetField("name", "White Lilies")
	if in := f.Input(); !in.OmitImage {
		t.Fatal("stored image should be omitted from the payload")
	}

	p, err := e.svc.Submit(e.ctx, f)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if p.Name != "White Lilies" {
		t.Fatalf("Name = %q", p.Name)
	}
	if img := e.fake.ProductImage(id); img == nil || *img != "https://cdn.example.com/lilies.jpg" {
		t.Fatalf("stored image changed: %v", img)
	}
	if e.fake.Requests("PUT /v1/products/update/:id") != 1 {
		t.Fatal("update endpoint not hit once")
	}
}

func TestSubmitEditReplacesImage(t *testing.T) {
	e := setup(t, nil)
	id := e.fake.AddProduct("Lilies", "White lilies", "30", e.catID, "https://cdn.example.com/lilies.jpg")

	f, err := e.svc.LoadForEdit(e.ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	f.SetImageURL("https://cdn.example.com/new.jpg")
	if _, err := e.svc.Submit(e.ctx, f); err != nil {
		t.Fatal(err)
	}
	if img := e.fake.ProductImage(id); img == nil || *img != "https://cdn.example.com/new.jpg" {
		t.Fatalf("stored image = %v", img)
	}
}

func TestSubmitFailure(t *testing.T) {
	e := setup(t, nil)
	f := filled(e)
	f.SetImageURL("https://cdn.example.com/roses.jpg")

	e.fake.FailNext(http.StatusInternalServerError, "database down")
	_, err := e.svc.Submit(e.ctx, f)
	if !apperr.Is(err, apperr.Unavailable) || apperr.PublicMessage(err) != MsgSaveFailed {
		t.Fatalf("err = %v", err)
	}
	if f.GeneralError != MsgSaveFailed {
		t.Fatalf("GeneralError = %q", f.GeneralError)
	}
	if len(e.fake.ProductIDs()) != 0 {
		t.Fatal("product created despite failure")
	}
}

func TestLoadForEditNotFound(t *testing.T) {
	e := setup(t, nil)
	_, err := e.svc.LoadForEdit(e.ctx, "missing")
	if !apperr.Is(err, apperr.NotFound) || apperr.PublicMessage(err) != MsgLoadFailed {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateCategoryInline(t *testing.T) {
	e := setup(t, nil)
	f, err := e.svc.NewForm(e.ctx)
	if err != nil {
		t.Fatal(err)
	}
	_ = f.SetField("category", AddNewCategory)

	before := e.fake.TotalRequests()
	_, err = e.svc.CreateCategory(e.ctx, f, catalogapi.CategoryInput{Name: "   "})
	if !apperr.Is(err, apperr.Invalid) || apperr.PublicMessage(err) != MsgCategoryName {
		t.Fatalf("blank name: %v", err)
	}
	if e.fake.TotalRequests() != before {
		t.Fatal("blank name reached the API")
	}

	c, err := e.svc.CreateCategory(e.ctx, f, catalogapi.CategoryInput{Name: "Chocolates"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if f.Category != c.ID || f.AddingCategory || len(f.Categories) != 2 {
		t.Fatalf("form after create = %+v", f)
	}

	e.fake.FailNext(http.StatusInternalServerError, "nope")
	_, err = e.svc.CreateCategory(e.ctx, f, catalogapi.CategoryInput{Name: "Cakes"})
	if apperr.PublicMessage(err) != MsgCategoryFailed {
		t.Fatalf("failure message = %q", apperr.PublicMessage(err))
	}
	if len(f.Categories) != 2 {
		t.Fatal("failed category appended")
	}
}

func TestStorageDelivery(t *testing.T) {
	e := setup(t, storage.NewLocal(t.TempDir(), "/media/products"))
	f := filled(e)
	if err := f.SelectFile(context.Background(), pngSource(t, 400, 300)); err != nil {
		t.Fatal(err)
	}

	p, err := e.svc.Submit(e.ctx, f)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	img := e.fake.ProductImage(p.ID)
	if img == nil || !strings.HasPrefix(*img, "/media/products/red-roses-") || !strings.HasSuffix(*img, ".jpg") {
		t.Fatalf("stored image = %v", img)
	}
}

func TestStorageDeliveryRemovesImageOnFailure(t *testing.T) {
	dir := t.TempDir()
	e := setup(t, storage.NewLocal(dir, "/media/products"))
	f := filled(e)
	if err := f.SelectFile(context.Background(), pngSource(t, 64, 48)); err != nil {
		t.Fatal(err)
	}

	e.fake.FailNext(http.StatusInternalServerError, "boom")
	if _, err := e.svc.Submit(e.ctx, f); err == nil {
		t.Fatal("Submit() succeeded")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("orphaned files: %v", entries)
	}
}

func TestFailedReselectSubmitsLastGoodImage(t *testing.T) {
	e := setup(t, nil)
	f := filled(e)
	if err := f.SelectFile(context.Background(), pngSource(t, 1200, 900)); err != nil {
		t.Fatal(err)
	}
	good := f.Image.Asset.DataURL

	bad := imageintake.Source{Filename: "bad.png", Size: 5, Body: strings.NewReader("nope!")}
	if err := f.SelectFile(context.Background(), bad); err == nil {
		t.Fatal("expected error")
	}
	if !f.Validate() {
		t.Fatalf("Validate() errors = %v", f.Errors)
	}
	in := f.Input()
	if in.OmitImage || in.ImageURL == nil || *in.ImageURL != good {
		t.Fatalf("image sent = %v, want last good data URL", in.ImageURL)
	}
	if f.Image.Preview != good {
		t.Fatal("preview and submitted image disagree")
	}
}

func TestStorageDeliveryPublishesTypedDataURL(t *testing.T) {
	e := setup(t, storage.NewLocal(t.TempDir(), "/media/products"))
	f := filled(e)
	src := pngSource(t, 1200, 900)
	raw, err := io.ReadAll(src.Body)
	if err != nil {
		t.Fatal(err)
	}
	f.SetImageURL("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))

	p, err := e.svc.Submit(e.ctx, f)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	img := e.fake.ProductImage(p.ID)
	if img == nil || !strings.HasPrefix(*img, "/media/products/red-roses-") {
		t.Fatalf("stored image = %v", img)
	}
	if f.Image.Asset == nil || f.Image.Asset.Width != 800 {
		t.Fatalf("inline image not processed: %+v", f.Image)
	}
}

func TestStorageDeliveryRejectsBrokenDataURL(t *testing.T) {
	e := setup(t, storage.NewLocal(t.TempDir(), "/media/products"))
	f := filled(e)
	f.SetImageURL("data:image/png;base64,bm90IGFuIGltYWdl")

	before := e.fake.TotalRequests()
	_, err := e.svc.Submit(e.ctx, f)
	if !apperr.Is(err, apperr.Invalid) || f.Errors["image"] != imageintake.MsgProcessing {
		t.Fatalf("Submit() = %v, errors %v", err, f.Errors)
	}
	if e.fake.TotalRequests() != before {
		t.Fatal("broken image reached the API")
	}
}
