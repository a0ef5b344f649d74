package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var statusCmd = &cobra.Command{
	Use:   "status <mission-id>",
	Short: "Show a mission's checkpoint progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("server", getEnv("GOVERNOR_URL", "http://localhost:8088"), "Governor server base URL")
	statusCmd.Flags().Bool("json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

type missionView struct {
	MissionID   string                    `json:"missionId"`
	Title       string                    `json:"title"`
	Risk        string                    `json:"risk"`
	Checkpoints map[string]checkpointView `json:"checkpoints"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	Warnings    []string                  `json:"warnings,omitempty"`
}

type checkpointView struct {
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	Actor        string   `json:"actor"`
	Batches      []string `json:"batches,omitempty"`
	AuditPackRef string   `json:"auditPackRef,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	serverURL, _ := cmd.Flags().GetString("server")
	asJSON, _ := cmd.Flags().GetBool("json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(serverURL + "/missions/" + args[0])
	if err != nil {
		return fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("mission %s not found", args[0])
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status request failed: %s", resp.Status)
	}

	var m missionView
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return fmt.Errorf("decode mission: %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printMission(m, term.IsTerminal(int(os.Stdout.Fd())))
	return nil
}

var checkpointOrder = []string{"plan", "execute", "verify", "finalize"}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	approvedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	rejectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "approved":
		return approvedStyle
	case "completed":
		return completedStyle
	case "rejected":
		return rejectedStyle
	default:
		return pendingStyle
	}
}

func printMission(m missionView, colorize bool) {
	render := func(s lipgloss.Style, text string) string {
		if !colorize {
			return text
		}
		return s.Render(text)
	}

	fmt.Println()
	fmt.Printf("%s %s\n", render(titleStyle, "Mission:"), m.Title)
	fmt.Printf("%s %s  %s %s\n", render(dimStyle, "id:"), m.MissionID, render(dimStyle, "risk:"), m.Risk)
	fmt.Println()

	for _, name := range checkpointOrder {
		cp, ok := m.Checkpoints[name]
		if !ok {
			continue
		}
		marker := "○"
		if cp.Status == "completed" {
			marker = "●"
		} else if cp.Status == "approved" {
			marker = "◐"
		} else if cp.Status == "rejected" {
			marker = "✗"
		}
		line := fmt.Sprintf("  %s %-9s %s", marker, name, cp.Status)
		fmt.Println(render(statusStyle(cp.Status), line))
		if len(cp.Batches) > 0 {
			batches := append([]string(nil), cp.Batches...)
			sort.Strings(batches)
			for _, b := range batches {
				fmt.Println(render(dimStyle, "      batch "+b))
			}
		}
		if cp.AuditPackRef != "" {
			fmt.Println(render(dimStyle, "      audit pack "+cp.AuditPackRef))
		}
	}

	if len(m.Warnings) > 0 {
		fmt.Println()
		for _, w := range m.Warnings {
			fmt.Println(render(warningStyle, "  ! "+w))
		}
	}
	fmt.Println()
	fmt.Printf("%s %s\n", render(dimStyle, "updated:"), m.UpdatedAt.Format(time.RFC3339))
	fmt.Println()
}
