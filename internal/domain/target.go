package domain

import "fmt"

type ProbeTarget struct {
	Label       string `json:"label"`
	Address     string `json:"address"`
	PingCommand string `json:"ping_command"`
}

// ExpandedLabel is the label of one address obtained by resolving name.
func ExpandedLabel(name, address string) string {
	return fmt.Sprintf("%s (%s)", name, address)
}
