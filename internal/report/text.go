package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"a11ydiff/internal/detect"
)

var headers = map[detect.Category]string{
	detect.CategoryShortLived:       "Short-lived Elements",
	detect.CategoryDisappearing:     "Disappearing Elements",
	detect.CategoryAppearing:        "Appearing Elements",
	detect.CategoryMoving:           "Moving Elements",
	detect.CategoryAttributeChanged: "Attributes Changed Elements",
}

// WriteText renders the results.txt body for c.
func WriteText(w io.Writer, c Case) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Test: %s\n", c.Dir)
	fmt.Fprintf(bw, "Window changed: %s\n", pyBool(c.WindowChanged))
	if c.Result.Skipped != "" {
		fmt.Fprintf(bw, "Skipped: %s\n", c.Result.Skipped)
	}
	for _, cat := range detect.Categories {
		records := c.Result.Records(cat)
		fmt.Fprintf(bw, "%s [%d]: \n", headers[cat], len(records))
		for _, rec := range records {
			line, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode %s record: %w", cat, err)
			}
			bw.Write(line)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
