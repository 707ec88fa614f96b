package metrics

// Average returns the field-wise mean of the non-empty daily slices.
// Rows is the total row count across those days. No data yields a zero Slice.
func Average(daily []Slice) Slice {
	var sum Slice
	n := 0
	for _, s := range daily {
		if s.Empty() {
			continue
		}
		sum = addSlices(sum, s)
		n++
	}
	if n == 0 {
		return Slice{}
	}
	return divSlice(sum, float64(n))
}

func addSlices(a, b Slice) Slice {
	return Slice{
		Impressions:          a.Impressions + b.Impressions,
		Clicks:               a.Clicks + b.Clicks,
		CTR:                  a.CTR + b.CTR,
		AvgPosition:          a.AvgPosition + b.AvgPosition,
		Queries:              a.Queries + b.Queries,
		QueriesTop10:         a.QueriesTop10 + b.QueriesTop10,
		RankedPages:          a.RankedPages + b.RankedPages,
		Sessions:             a.Sessions + b.Sessions,
		EngagementRate:       a.EngagementRate + b.EngagementRate,
		ReturningRatio:       a.ReturningRatio + b.ReturningRatio,
		AvgEngagementSeconds: a.AvgEngagementSeconds + b.AvgEngagementSeconds,
		Conversions:          a.Conversions + b.Conversions,
		ConversionRate:       a.ConversionRate + b.ConversionRate,
		LCPMs:                a.LCPMs + b.LCPMs,
		CLS:                  a.CLS + b.CLS,
		PerformanceScore:     a.PerformanceScore + b.PerformanceScore,
		Rows:                 a.Rows + b.Rows,
	}
}

func divSlice(s Slice, k float64) Slice {
	return Slice{
		Impressions:          s.Impressions / k,
		Clicks:               s.Clicks / k,
		CTR:                  s.CTR / k,
		AvgPosition:          s.AvgPosition / k,
		Queries:              s.Queries / k,
		QueriesTop10:         s.QueriesTop10 / k,
		RankedPages:          s.RankedPages / k,
		Sessions:             s.Sessions / k,
		EngagementRate:       s.EngagementRate / k,
		ReturningRatio:       s.ReturningRatio / k,
		AvgEngagementSeconds: s.AvgEngagementSeconds / k,
		Conversions:          s.Conversions / k,
		ConversionRate:       s.ConversionRate / k,
		LCPMs:                s.LCPMs / k,
		CLS:                  s.CLS / k,
		PerformanceScore:     s.PerformanceScore / k,
		Rows:                 s.Rows,
	}
}
