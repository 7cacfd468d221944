// Package visit2pdf renders a site-visit report to PDF.
//
// # Quick Start
//
// Open the data source, build a service, generate, and close both when done:
//
//	db, err := store.Open(ctx, cfg.Database)
//	defer db.Close() // safe when Open failed
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	templates, _ := assets.NewTemplateResolver("")
//	svc, err := visit2pdf.NewService(db, templates)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	res, err := svc.Generate(ctx, visit2pdf.Request{VisitID: 77})
//
// # Stages
//
// Generate runs these stages in order and stops at the first failure:
//
//  1. Fetch the visit, its observations, visitors and representatives
//  2. Load the template text (file path or built-in name)
//  3. Substitute placeholders (see DefaultPlaceholders)
//  4. Print the HTML to PDF in headless Chrome
//  5. Optionally count pages and stamp document properties
//  6. Write the PDF, overwriting any previous file
//  7. Optionally publish the file to object storage
//
// # Placeholders
//
// Templates are plain HTML with literal tokens. {{siteName}} is replaced
// everywhere; {{date}}, {{conductedBy}}, {{observationCount}}, {{visitors}}
// and {{observations}} are replaced at their first occurrence only. Fetched
// text is HTML-escaped unless RenderOptions.Raw is set.
//
// # Browser
//
// Chrome is launched on the first conversion and reused until Close. Set
// ROD_BROWSER_BIN to use an installed browser; the sandbox is disabled when
// it is set or when CI=true.
//
// # Errors
//
// Stage failures wrap sentinel errors (ErrVisitNotFound, ErrPageLoad,
// ErrWritePDF, ...) and can be classified with errors.Is.
package visit2pdf
