package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want TargetKind
	}{
		{"Message", TargetMessage},
		{"contract", TargetContract},
		{" PROPOSAL ", TargetProposal},
		{"Review", TargetUnknown},
		{"", TargetUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseTargetKind(tt.in))
		})
	}
}

func TestNotificationDecode(t *testing.T) {
	t.Parallel()

	var n Notification
	err := json.Unmarshal([]byte(`{"id":2,"actor":6,"actor_name":"acme","verb":"sent you a contract",
		"target_type":"Contract","target_id":77,"unread":true,"timestamp":"2025-01-01T11:00:00Z"}`), &n)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.Key())
	assert.Equal(t, TargetContract, n.Target())
	assert.Equal(t, int64(77), n.TargetID)
	assert.True(t, n.Unread)

	var m Notification
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"target_type":null,"target_id":null}`), &m))
	assert.Equal(t, TargetUnknown, m.Target())
}

func TestAmount(t *testing.T) {
	t.Parallel()

	var p struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1500.00","b":25.5,"c":null}`), &p))
	assert.Equal(t, Amount("1500.00"), p.A)
	assert.Equal(t, Amount("25.5"), p.B)
	assert.Equal(t, Amount(""), p.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &p))
}

func TestUserRole(t *testing.T) {
	t.Parallel()

	assert.True(t, User{Role: "client"}.IsClient())
	assert.True(t, User{Role: "freelancer"}.IsFreelancer())
	assert.False(t, User{Role: "freelancer"}.IsClient())
}

func TestMarketplaceDecode(t *testing.T) {
	t.Parallel()

	var c Contract
	require.NoError(t, json.Unmarshal([]byte(`{
		"id":77,
		"proposal":{"id":3,"project_id":12,"project_title":"Logo","proposed_rate":"150.00"},
		"client_id":6,"client_name":"acme","freelancer_id":7,"freelancer_name":"sam",
		"status":"active","start_date":"2025-01-01","end_date":"2025-02-01"
	}`), &c))
	assert.Equal(t, Contract{
		ID:             77,
		Proposal:       ProposalRef{ID: 3, ProjectID: 12, ProjectTitle: "Logo", ProposedRate: "150.00"},
		ClientID:       6,
		ClientName:     "acme",
		FreelancerID:   7,
		FreelancerName: "sam",
		Status:         "active",
		StartDate:      "2025-01-01",
		EndDate:        "2025-02-01",
	}, c)

	var p Project
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"title":"Landing","budget":900,"duration":14,"client":6,"status":"closed","skills":["HTML",{"id":2,"name":"CSS"}]}`), &p))
	assert.Equal(t, Amount("900"), p.Budget)
	assert.Equal(t, []Skill{{Name: "HTML"}, {ID: 2, Name: "CSS"}}, p.Skills)
	assert.False(t, p.Open())
}
