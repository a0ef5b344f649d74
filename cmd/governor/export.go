package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <mission-id>",
	Short: "Download a mission's audit pack from a running Governor server",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("server", getEnv("GOVERNOR_URL", "http://localhost:8088"), "Governor server base URL")
	exportCmd.Flags().String("out", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	serverURL, _ := cmd.Flags().GetString("server")
	outPath, _ := cmd.Flags().GetString("out")

	body, err := json.Marshal(map[string]string{"missionId": args[0]})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Post(serverURL+"/evidence/export", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("export failed: %s: %s", resp.Status, string(msg))
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("write audit pack: %w", err)
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", n, outPath)
	}
	return nil
}
