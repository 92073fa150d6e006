// describe writes generated alt text into the ImageDescription of JPEG images using Gemini.
package main

import (
	"context"
	"flag"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"

	"github.com/tstromberg/lightbox/pkg/collect"
)

var (
	dryRun    = flag.Bool("n", false, "dry-run mode, don't write descriptions")
	overwrite = flag.Bool("o", false, "overwrite existing descriptions")
	outDir    = flag.String("out", "", "Location of output directory for thumbnails")
	model     = flag.String("model", collect.DefaultModel, "Gemini model to use")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if len(flag.Args()) == 0 {
		klog.Exitf("No input directories provided. Usage: %s -out <output_dir> <input_dir1> [input_dir2 ...]", os.Args[0])
	}

	if *outDir == "" {
		klog.Exitf("--out is a required flag")
	}

	ctx := context.Background()
	d, err := collect.NewDescriber(ctx, os.Getenv("GOOGLE_AI_API_KEY"), *model)
	if err != nil {
		klog.Exitf("describer: %v", err)
	}

	e, err := exiftool.NewExiftool()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer func() {
		if err := e.Close(); err != nil {
			klog.Errorf("Failed to close exiftool: %v", err)
		}
	}()

	total := 0
	for _, in := range flag.Args() {
		ps, err := collect.Find(in, false, *outDir)
		if err != nil {
			klog.Exitf("find %s: %v", in, err)
		}

		for _, p := range ps {
			if !*overwrite && p.Description != "" {
				klog.V(1).Infof("%s has a description: %q", p.InPath, p.Description)
				continue
			}

			if err := collect.Preview(p, *outDir); err != nil {
				klog.Errorf("preview %s: %v", p.InPath, err)
				continue
			}

			text, err := d.Describe(ctx, p.Preview.Path)
			if err != nil {
				klog.Errorf("describe %s: %v", p.InPath, err)
				continue
			}
			if text == "" {
				klog.Warningf("empty description for %s", p.InPath)
				continue
			}

			total++
			klog.Infof("%s: %q", p.InPath, text)
			if *dryRun {
				continue
			}

			o := e.ExtractMetadata(p.InPath)
			o[0].SetString("ImageDescription", text)
			e.WriteMetadata(o)
			if o[0].Err != nil {
				klog.Errorf("Failed to write metadata for %s: %v", p.InPath, o[0].Err)
			}
		}
	}

	klog.Infof("describe completed: %d images described", total)
}
