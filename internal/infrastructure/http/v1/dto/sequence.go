package dto

// SequenceResponse reports the last issued value of a sequence.
type SequenceResponse struct {
	Name    string `json:"name"`
	Current int64  `json:"current"`
}

// SeedRequest raises a sequence, for importing numbers issued elsewhere.
type SeedRequest struct {
	Value *int64 `json:"value" binding:"required"`
}
