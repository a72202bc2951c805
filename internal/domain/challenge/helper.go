package challenge

import "fmt"

// Helper is a volunteer registered as able to assist with challenges they
// have solved. Rows are created and removed by admin commands; availability
// is toggled by the helper themself.
type Helper struct {
	discordID string
	available bool
}

func NewHelper(discordID string) (*Helper, error) {
	if discordID == "" {
		return nil, fmt.Errorf("discord id is required")
	}
	return &Helper{discordID: discordID, available: true}, nil
}

func ReconstructHelper(discordID string, available bool) (*Helper, error) {
	if discordID == "" {
		return nil, fmt.Errorf("discord id is required")
	}
	return &Helper{discordID: discordID, available: available}, nil
}

func (h *Helper) DiscordID() string {
	return h.discordID
}

func (h *Helper) Available() bool {
	return h.available
}

func (h *Helper) SetAvailable(available bool) {
	h.available = available
}
