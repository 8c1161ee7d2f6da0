package notegrp

import (
	"time"

	"github.com/speedrunethereum/speedrun/business/core/note"
	"github.com/speedrunethereum/speedrun/business/web/signed"
)

// AppNote represents a note in the API.
type AppNote struct {
	ID            string `json:"id"`
	AuthorAddress string `json:"authorAddress"`
	TargetAddress string `json:"userAddress"`
	Comment       string `json:"comment"`
	CreatedAt     string `json:"createdAt"`
}

func toAppNote(nt note.Note) AppNote {
	return AppNote{
		ID:            nt.ID,
		AuthorAddress: nt.AuthorAddress,
		TargetAddress: nt.TargetAddress,
		Comment:       nt.Comment,
		CreatedAt:     nt.CreatedAt.Format(time.RFC3339),
	}
}

func toAppNotes(nts []note.Note) []AppNote {
	items := make([]AppNote, len(nts))
	for i, nt := range nts {
		items[i] = toAppNote(nt)
	}
	return items
}

// AppNewNote contains information needed to create a note.
type AppNewNote struct {
	signed.Signer
	Comment string `json:"comment" validate:"required,max=2000"`
}

// AppReadNotes is the signed request to list the notes of a user.
type AppReadNotes struct {
	signed.Signer
}

// AppDeleteNote is the signed request to delete a note.
type AppDeleteNote struct {
	signed.Signer
}
