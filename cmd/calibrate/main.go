// Calibrate - drive a gaze server's calibration procedure from the terminal.
// Walks the default 5-point grid: press Enter while fixating each target.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/internal/httpc"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

func main() {
	host := flag.String("host", "localhost", "Gaze server host")
	force := flag.Bool("force", false, "Apply the calibration even if the device reports failure")
	flag.Parse()

	base := config.ServerURL(*host)
	fmt.Printf("🎯 Calibrating against %s\n", base)

	if err := post(base+"/calibration:start", nil, nil); err != nil {
		fmt.Printf("❌ Start failed: %v\n", err)
		os.Exit(1)
	}

	stdin := bufio.NewReader(os.Stdin)
	for i, p := range config.CalibrationGrid {
		fmt.Printf("Point %d/%d at (%.1f, %.1f) - fixate and press Enter... ",
			i+1, len(config.CalibrationGrid), p[0], p[1])
		stdin.ReadString('\n')

		var status protocol.StatusResponse
		req := protocol.CollectRequest{X: p[0], Y: p[1]}
		if err := post(base+"/calibration:collect", req, &status); err != nil {
			fmt.Printf("❌ Collect failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(status.Message)
	}

	url := base + "/calibration:result"
	if *force {
		url += "?force=true"
	}
	var result protocol.ResultResponse
	if err := post(url, nil, &result); err != nil {
		fmt.Printf("❌ Compute failed: %v\n", err)
		os.Exit(1)
	}

	if result.Message == protocol.MessageOK {
		fmt.Println("✅ Calibration applied")
		return
	}

	fmt.Println("⚠️  Calibration failed")
	for _, p := range result.Recalibrate {
		fmt.Printf("   recollect (%.1f, %.1f)\n", p[0], p[1])
	}
	os.Exit(1)
}

// post sends a JSON body and decodes a JSON reply (both optional).
func post(url string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	resp, err := httpc.Post(url, "application/json", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var detail struct {
			Detail string `json:"detail"`
		}
		json.NewDecoder(resp.Body).Decode(&detail)
		if detail.Detail != "" {
			return fmt.Errorf("%s", detail.Detail)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
