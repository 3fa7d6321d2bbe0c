/*
Package plate renders the bitmap icon set of the power manager from its Inkscape source.

The source document groups the icons in layers whose label contains the word "plate".
Every rectangle of such a layer marks the area of one icon and carries the output file name
as its label, for example "battery/full" or "battery/empty.png". Each rectangle is exported
as a PNG file under the output directory, creating the intermediate directories on the way.
Icons already present on disk are left untouched, so a rerun only renders what is missing.

The package provides a command line interface. To check the supported flags type:

	$ plate --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"log"

		"github.com/esimov/plate"
	)

	func main() {
		cfg := plate.DefaultConfig()
		cfg.Source = "svg/gpm-batteries.svg"
		cfg.Output = "png"

		e, err := plate.NewExporter(cfg)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := e.Run(context.Background()); err != nil {
			log.Fatalf("Error rendering the icons: %v", err)
		}
	}
*/
package plate
