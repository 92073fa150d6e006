// lightbox browses a gallery item list in the terminal.
package main

import (
	"flag"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/klog/v2"

	"github.com/tstromberg/lightbox/pkg/gallery"
	"github.com/tstromberg/lightbox/pkg/viewer"
)

var (
	itemsPath  = flag.String("items", "", "JSON file of gallery items")
	title      = flag.String("title", "Gallery", "Title of the gallery")
	nativeLazy = flag.Bool("native-lazy", true, "render thumbnails for a browser with native lazy-loading")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *itemsPath == "" {
		klog.Exitf("--items is a required flag")
	}

	is, err := gallery.LoadItems(*itemsPath)
	if err != nil {
		klog.Exitf("load items: %v", err)
	}

	for _, d := range gallery.DuplicateOriginals(is) {
		klog.Warningf("%s appears more than once; arrow keys will skip its later copies", d)
	}

	doc, err := gallery.Page(gallery.PageData{Title: *title})
	if err != nil {
		klog.Exitf("page: %v", err)
	}

	w, err := gallery.Mount(doc, is, gallery.StaticEnv(*nativeLazy))
	if err != nil {
		klog.Exitf("mount: %v", err)
	}

	if _, err := tea.NewProgram(viewer.New(w, *title)).Run(); err != nil {
		klog.Exitf("viewer: %v", err)
	}
}
