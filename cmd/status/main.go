// The status binary asks the running daemon one question and prints the
// answer. Its whole job is reporting to a human, so unlike the hook binary
// every failure is loud: printed message, non-zero exit.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"pixelpet.ai/internal/statusclient"
	"pixelpet.ai/internal/tuning"
)

func main() {
	var (
		asJSON     = flag.Bool("json", false, "print the raw JSON response")
		socketPath = flag.String("socket", tuning.DefaultSocketPath(), "daemon socket path")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: status [flags] status|skills|achievements|upgrade <skill>")
		os.Exit(1)
	}
	cmd := flag.Arg(0)

	client := &statusclient.Client{SocketPath: *socketPath}

	var (
		result map[string]any
		err    error
	)
	switch cmd {
	case "status", "skills", "achievements":
		result, err = client.Query(cmd)
	case "upgrade":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "usage: status upgrade <skill>")
			os.Exit(1)
		}
		result, err = client.Do("upgrade", map[string]any{"skill": flag.Arg(1)})
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, statusclient.ErrNotRunning) {
			fail(*asJSON, "Game not running")
		}
		fail(*asJSON, err.Error())
	}

	if *asJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		if !actionSucceeded(cmd, result) {
			os.Exit(1)
		}
		return
	}

	switch cmd {
	case "status":
		printStatus(result)
	case "skills":
		printSkills(result)
	case "achievements":
		printAchievements(result)
	case "upgrade":
		fmt.Println(str(result, "message"))
	}
	if !actionSucceeded(cmd, result) {
		os.Exit(1)
	}
}

func fail(asJSON bool, msg string) {
	if asJSON {
		out, _ := json.Marshal(map[string]any{"error": msg})
		fmt.Println(string(out))
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}

// actionSucceeded is true for queries; actions report their own success flag.
func actionSucceeded(cmd string, result map[string]any) bool {
	if cmd != "upgrade" {
		return true
	}
	ok, _ := result["success"].(bool)
	return ok
}

func printStatus(r map[string]any) {
	fmt.Printf("Level %v  (%v/%v xp)\n", r["level"], r["experience"], r["xp_to_next"])
	fmt.Printf("Activity: %v\n", r["activity"])
	fmt.Printf("Tokens: %v  Connections: %v\n", r["tokens"], r["connections"])
	fmt.Printf("Tools used: %v  Agents spawned: %v\n", r["tools_used"], r["agents_spawned"])
	if tod, ok := r["time_of_day"].(float64); ok {
		fmt.Printf("Time of day: %.2f\n", tod)
	}
}

func printSkills(r map[string]any) {
	skills, _ := r["skills"].(map[string]any)
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-12s level %v\n", name, skills[name])
	}
	fmt.Printf("Tokens: %v\n", r["tokens"])
}

func printAchievements(r map[string]any) {
	unlocked, _ := r["unlocked"].([]any)
	for _, id := range unlocked {
		fmt.Printf("* %v\n", id)
	}
	fmt.Printf("%v/%v unlocked\n", r["unlocked_count"], r["total"])
}

func str(r map[string]any, key string) string {
	s, _ := r[key].(string)
	return s
}
