package handlers

import (
	"net/http"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/pkg/models"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// teamGroup maps one team-page section to the privilege bit that places a
// user in it. Order matters: each user lands in the first matching group.
type teamGroup struct {
	name string
	bit  privileges.Privileges
}

var teamGroups = []teamGroup{
	{"Developer Team", privileges.AdminManagePrivileges},
	{"Administrator Team", privileges.AdminManageUsers},
	{"Community Management Team", privileges.AdminManageReports},
	{"Chat Moderation Team", privileges.AdminChatMod},
	{"Beatmap Appreciation Team", privileges.AdminManageBeatmaps},
	{"Social Media Team", privileges.AdminSendAlerts},
	{"Supporters", privileges.UserDonor},
}

// TeamHandler serves the team page.
type TeamHandler struct {
	store store.Store
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(s store.Store) *TeamHandler {
	return &TeamHandler{store: s}
}

// TeamGroupResponse is one section of the team page.
type TeamGroupResponse struct {
	Name    string         `json:"name"`
	Members []*models.User `json:"members"`
}

// Get handles GET /api/v2/team.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	staff, err := h.store.ListStaff(r.Context())
	if err != nil {
		response.Err(w, err)
		return
	}

	groups := make([]TeamGroupResponse, len(teamGroups))
	for i, g := range teamGroups {
		groups[i] = TeamGroupResponse{Name: g.name, Members: []*models.User{}}
	}

	for _, user := range staff {
		for i, g := range teamGroups {
			if user.Privileges.Has(g.bit) {
				groups[i].Members = append(groups[i].Members, user)
				break
			}
		}
	}

	response.Data(w, http.StatusOK, groups)
}
