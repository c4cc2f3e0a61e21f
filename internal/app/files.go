package app

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/sqweek/dialog"

	"richtext/internal/log"
	"richtext/pkg/richtext"
)

const fileExt = "rtx"

func (a *App) openDialog() error {
	path, err := dialog.File().Filter("Rich text documents", fileExt).Title("Open document").Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.openPath(path)
}

func (a *App) openPath(path string) error {
	path = filepath.Clean(path)
	doc, err := richtext.LoadWithOptions(path, richtext.LoadOptions{Password: a.password})
	if err != nil {
		if errors.Is(err, richtext.ErrPasswordRequired) || errors.Is(err, richtext.ErrInvalidPassword) {
			log.Warn(log.CatApp, "Encrypted document needs a password", "path", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	a.reset(doc)
	a.filePath = path
	a.status = "Opened " + filepath.Base(path)
	log.Info(log.CatApp, "Opened document", "path", path, "runes", doc.Text.Len())
	return nil
}

func (a *App) save(saveAs bool) error {
	path := a.filePath
	if saveAs || path == "" {
		p, err := dialog.File().Filter("Rich text documents", fileExt).Title("Save document").Save()
		if errors.Is(err, dialog.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		path = p
		if filepath.Ext(path) == "" {
			path += "." + fileExt
		}
	}

	a.meta.ModifiedUnix = time.Now().Unix()
	doc := &richtext.Document{Metadata: a.meta, Text: a.surface.AttributedText()}
	opts := richtext.SaveOptions{
		Compression: true,
		Encryption:  richtext.EncryptionOptions{Enabled: a.password != "", Password: a.password},
	}
	if err := richtext.SaveWithOptions(path, doc, opts); err != nil {
		return err
	}
	a.filePath = path
	a.status = "Saved " + filepath.Base(path)
	log.Info(log.CatApp, "Saved document", "path", path, "encrypted", opts.Encryption.Enabled)
	return nil
}

// insertImageDialog asks for a PNG and inserts it at the selection.
func (a *App) insertImageDialog() error {
	path, err := dialog.File().Filter("PNG images", "png").Title("Insert image").Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	a.mutate(func() { _, err = a.clipboard.InsertImage(img) })
	return err
}
