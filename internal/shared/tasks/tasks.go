package tasks

// Asynq task types.
const (
	TypeOverdueScan = "loan:overdue_scan"
)
