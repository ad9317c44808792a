package services

import (
	"github.com/dancefloor/backend/internal/db"
	"github.com/dancefloor/backend/internal/models"
)

func SongRequestToResponse(r db.SongRequest) models.SongRequestResponse {
	return models.SongRequestResponse{
		ID:           r.ID,
		DancefloorID: r.DancefloorID,
		UserID:       r.UserID,
		Song:         r.Song,
		Votes:        r.Votes,
		Likes:        r.Votes,
		Status:       r.Status,
		Order:        r.Position,
		CreatedAt:    r.CreatedAt,
	}
}

func SongRequestsToResponse(rs []db.SongRequest) []models.SongRequestResponse {
	out := make([]models.SongRequestResponse, len(rs))
	for i, r := range rs {
		out[i] = SongRequestToResponse(r)
	}
	return out
}

func MessageToResponse(m db.Message) models.MessageResponse {
	resp := models.MessageResponse{
		ID:           m.ID,
		DancefloorID: m.DancefloorID,
		Message:      m.Message,
		CreatedAt:    m.CreatedAt,
	}
	if m.AuthorID.Valid {
		resp.AuthorID = &m.AuthorID.String
	}
	return resp
}

func MessagesToResponse(ms []db.Message) []models.MessageResponse {
	out := make([]models.MessageResponse, len(ms))
	for i, m := range ms {
		out[i] = MessageToResponse(m)
	}
	return out
}

func DancefloorToResponse(d db.Dancefloor, joinURL string) models.DancefloorResponse {
	resp := models.DancefloorResponse{
		ID:            d.ID,
		DJID:          d.DjID,
		Status:        d.Status,
		RequestsCount: d.RequestsCount,
		MessagesCount: d.MessagesCount,
		CreatedAt:     d.CreatedAt,
		JoinURL:       joinURL,
	}
	if d.EndedAt.Valid {
		resp.EndedAt = &d.EndedAt.Time
	}
	return resp
}

func profileFields(p db.DJProfile) models.DJProfileFields {
	return models.DJProfileFields{
		Bio:             p.Bio,
		Website:         p.Website,
		InstagramHandle: p.InstagramHandle,
		TwitterHandle:   p.TwitterHandle,
		VenmoHandle:     p.VenmoHandle,
		CashappHandle:   p.CashappHandle,
	}
}

// ProfileFromRequest maps an update body onto the editable account fields.
func ProfileFromRequest(req models.UpdateProfileRequest) Profile {
	return Profile{
		Name: req.Name,
		DJProfile: db.DJProfile{
			Bio:             req.Bio,
			Website:         req.Website,
			InstagramHandle: req.InstagramHandle,
			TwitterHandle:   req.TwitterHandle,
			VenmoHandle:     req.VenmoHandle,
			CashappHandle:   req.CashappHandle,
		},
	}
}

func AccountToResponse(dj db.DJ) models.AccountResponse {
	return models.AccountResponse{
		DJResponse:      models.DJResponse{ID: dj.ID, Name: dj.Name, Email: dj.Email},
		DJProfileFields: profileFields(dj.DJProfile),
		CreatedAt:       dj.CreatedAt,
	}
}

// DJInfoToResponse leaves out the email; joinURL maps a dancefloor id to its
// join link.
func DJInfoToResponse(info DJInfo, joinURL func(string) string) models.DJInfoResponse {
	resp := models.DJInfoResponse{
		ID:              info.DJ.ID,
		Name:            info.DJ.Name,
		DJProfileFields: profileFields(info.DJ.DJProfile),
	}
	if info.Active != nil {
		resp.IsActive = true
		resp.DancefloorID = &info.Active.ID
		resp.JoinURL = joinURL(info.Active.ID)
	}
	return resp
}
