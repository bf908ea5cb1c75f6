// Package etf is the dashboard read path: the ETF model, its Postgres
// store, filtering and sorting, free-sample gating, summary stats, paid
// exports and the upstream CSV import.
//
// Gating happens on the server. A caller without paid access receives the
// full row set, but every row outside FreeSampleAllowList has its gated
// metrics removed before it is serialized:
//
//	rows, _ := store.List(ctx)
//	rows = etf.Apply(rows, etf.Query{Status: "Healthy", SortKey: etf.SortTakeHomeCash1Y, Desc: true})
//	view := etf.Gate(rows, ent.Active())
package etf
