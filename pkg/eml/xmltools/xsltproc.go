package xmltools

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/emlquality/pkg/eml"
)

// XSLTProc dereferences documents by applying a stylesheet with xsltproc.
type XSLTProc struct {
	// Path is the xsltproc binary. Defaults to "xsltproc" on PATH.
	Path       string
	Stylesheet string
	Logger     *slog.Logger
}

var _ eml.Dereferencer = (*XSLTProc)(nil)

// Dereference implements eml.Dereferencer.
func (x *XSLTProc) Dereference(ctx context.Context, xml string) (string, error) {
	if x.Stylesheet == "" {
		return "", fmt.Errorf("%w: no dereference stylesheet configured", eml.ErrConfiguration)
	}
	if _, err := os.Stat(x.Stylesheet); err != nil {
		return "", fmt.Errorf("%w: dereference stylesheet: %v", eml.ErrConfiguration, err)
	}
	bin, err := resolveBinary(x.Path, "xsltproc")
	if err != nil {
		return "", err
	}
	return run(ctx, loggerOrDiscard(x.Logger), bin, xml, x.Stylesheet, "-")
}
