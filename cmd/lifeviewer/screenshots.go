package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ZhiWang-UIUC/Life-Expectancy/cmd/lifeviewer/uihelpers"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/dataset"
	"github.com/ZhiWang-UIUC/Life-Expectancy/src/scenes"
)

// screenshotName is the file written for scene i.
func screenshotName(i int, id string) string {
	return fmt.Sprintf("%02d_%s.png", i+1, id)
}

// RunScreenshotsMode renders every scene of the store against its current parameters and
// writes them as PNGs under outDir. It runs headlessly without creating a UI window.
func RunScreenshotsMode(store *scenes.Store, outDir string, width int) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create out dir")
	}
	w, h := uihelpers.ComputeChartDimensions(width)
	var written []string
	for i := 0; i < store.SceneCount(); i++ {
		vm := store.RenderScene(i)
		img := renderScene(vm, w, h)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return written, errors.Wrapf(err, "png encode scene %s", vm.SceneID)
		}
		outPath := filepath.Join(outDir, screenshotName(i, vm.SceneID))
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return written, errors.Wrapf(err, "write %s", outPath)
		}
		dataset.Infof("screenshot %s (%s, %s)", outPath, vm.Kind, vm.Status)
		written = append(written, outPath)
	}
	return written, nil
}
