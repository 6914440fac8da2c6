package constants

const (
	Create       = "CREATE"
	Update       = "UPDATE"
	Delete       = "DELETE"
	Borrow       = "BORROW"
	Return       = "RETURN"
	SweepOverdue = "SWEEP_OVERDUE"
)
