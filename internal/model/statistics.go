package model

// StageCounts breaks down requests by workflow stage. Approved/rejected
// branch states are counted separately so the four pipeline buckets plus the
// branches always sum to the total.
type StageCounts struct {
	InitialReview   int `json:"initial_review"`
	TechnicalReview int `json:"technical_review"`
	CoreBanking     int `json:"core_banking"`
	Disbursed       int `json:"disbursed"`
	Approved        int `json:"approved"`
	Rejected        int `json:"rejected"`
}

// PriorityCounts breaks down requests by priority
type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
	Urgent int `json:"urgent"`
}

// DashboardStats is the read-side aggregate recomputed from the full request
// collection on every call — there are no running counters that can drift.
type DashboardStats struct {
	TotalRequests     int            `json:"total_requests"`
	PendingRequests   int            `json:"pending_requests"`
	AvgProcessingTime int            `json:"avg_processing_time"`
	DueSoon           int            `json:"due_soon"`
	ByStage           StageCounts    `json:"by_stage"`
	ByPriority        PriorityCounts `json:"by_priority"`
}
