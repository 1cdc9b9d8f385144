package renderer

// RenderStatus renders the status of a contract.
func RenderStatus(s Status) string {
	return renderTemplate("status", "status.md", nil, s)
}

// RenderHistory renders the recent transactions of a contract.
func RenderHistory(h History) string {
	partials := map[string]string{
		"transaction_rows": "transaction_rows.md",
	}
	if len(h.Transactions) == 0 {
		partials["transaction_rows"] = "history_empty.md"
	}
	return renderTemplate("history", "history.md", partials, h)
}

// RenderMigrations renders the state of every registered migration.
func RenderMigrations(m Migrations) string {
	return renderTemplate("migrations", "migrations.md", nil, m)
}

// RenderProfile renders a CSV profile.
func RenderProfile(p Profile) string {
	return renderTemplate("profile", "profile.md", nil, p)
}

// RenderVerification renders the outcome of a balance verification.
func RenderVerification(v Verification) string {
	partials := map[string]string{"verdict": "verify_ok.md"}
	switch {
	case v.OK():
	case v.Rebuilt:
		partials["verdict"] = "verify_rebuilt.md"
	default:
		partials["verdict"] = "verify_mismatch.md"
	}
	return renderTemplate("verify", "verify.md", partials, v)
}
