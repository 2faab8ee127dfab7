package pricing

// Plan is one purchasable subscription term, priced in Telegram Stars.
type Plan struct {
	Months int
	Stars  int
}

var plans = []Plan{
	{Months: 1, Stars: 75},
	{Months: 2, Stars: 130},
	{Months: 3, Stars: 200},
}

func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

func ByMonths(months int) (Plan, bool) {
	for _, p := range plans {
		if p.Months == months {
			return p, true
		}
	}
	return Plan{}, false
}
