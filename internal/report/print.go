package report

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/sirupsen/logrus"

	"github.com/archlinux/arch-repro-status/internal/models"
)

// Summary holds the reproducibility counts of a package set
type Summary struct {
	Total        int
	Reproducible int
	Bad          int
}

// Summarize counts the packages of the full, unfiltered set
func Summarize(packages []models.Package) Summary {
	s := Summary{Total: len(packages)}
	for _, pkg := range packages {
		if pkg.Status == models.StatusBad {
			s.Bad++
		}
	}
	s.Reproducible = s.Total - s.Bad
	return s
}

// Percentage returns the share of packages that are not known to be unreproducible
func (s Summary) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Reproducible) / float64(s.Total) * 100
}

// Printer writes package lines to an output and the summary to a logger
type Printer struct {
	out     io.Writer
	log     logrus.FieldLogger
	isLocal bool
}

// NewPrinter creates a printer. isLocal selects the wording of the summary
// ("Your system is" vs "Your packages are").
func NewPrinter(out io.Writer, log logrus.FieldLogger, isLocal bool) *Printer {
	return &Printer{
		out:     out,
		log:     log,
		isLocal: isLocal,
	}
}

// Print writes one line per package that passes filter and logs the summary of all packages.
func (p *Printer) Print(packages []models.Package, filter *models.Status) error {
	for _, pkg := range Filter(packages, filter) {
		if _, err := fmt.Fprintf(p.out, "[%s] %s\n", pkg.Status.Marker(), pkg); err != nil {
			return models.NewError(models.ErrIO, fmt.Errorf("failed to write results: %w", err))
		}
	}

	p.logSummary(Summarize(packages))
	return nil
}

func (p *Printer) logSummary(s Summary) {
	if s.Total == 0 {
		p.log.Warn("No packages found.")
		return
	}

	not := color.Bold.Render("not")
	switch s.Bad {
	case 0:
		p.log.Info("All packages are reproducible!")
	case 1:
		p.log.Infof("1/%d package is %s reproducible. Almost there.", s.Total, not)
	default:
		p.log.Infof("%d/%d packages are %s reproducible.", s.Bad, s.Total, not)
	}

	subject := "packages are"
	if p.isLocal {
		subject = "system is"
	}
	p.log.Infof("Your %s %.2f%% reproducible.", subject, s.Percentage())
}
