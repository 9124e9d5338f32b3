package mcp

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name":        "import_deals",
				"description": "Load a JSONL deal export into the store and persist it. Existing deals are replaced only when the imported snapshot is newer.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"path": map[string]interface{}{"type": "string", "description": "Path to a JSONL file of deal records"},
					},
					"required": []string{"path"},
				},
			},
			map[string]interface{}{
				"name": "score_opportunities",
				"description": "Score open deals on the seven-component opportunity model (deal size, probability, urgency, competition, relationship, budget, timing). " +
					"Returns a ranked list with priority, risk level and a recommendation per deal.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"deal_ids": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Optional: restrict scoring to these deal IDs"},
					},
				},
			},
			map[string]interface{}{
				"name":        "get_portfolio_metrics",
				"description": "Aggregate the scored open pipeline: average score, counts by priority and risk, total value, and the value concentrated in high-priority and at-risk deals.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
			map[string]interface{}{
				"name": "run_revenue_forecast",
				"description": "Forecast revenue over a period from the open pipeline. Deals are enriched with modeled close probabilities; the report contains raw and " +
					"probability-weighted totals, a stage breakdown, per-month buckets, and a risk summary.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"period":     map[string]interface{}{"type": "string", "enum": []string{"week", "month", "quarter", "year"}, "description": "Forecast horizon (default: quarter)"},
						"confidence": map[string]interface{}{"type": "number", "description": "Confidence multiplier applied to weighted values, 0-1 (default: 0.9)"},
					},
				},
			},
			map[string]interface{}{
				"name": "get_revenue_trend",
				"description": "Analyze the monthly closed-won revenue series: exponentially smoothed values, a linear-trend projection with confidence bands, " +
					"statistical anomalies, and plain-language insights.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"months_back":   map[string]interface{}{"type": "integer", "description": "History length in months (default: 12)"},
						"periods_ahead": map[string]interface{}{"type": "integer", "description": "Months to project forward (default: 3)"},
					},
				},
			},
			map[string]interface{}{
				"name":        "segment_accounts",
				"description": "Cluster open deals by value, close probability and pipeline age using deterministic k-means. Useful for spotting natural tiers in the book of business.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"clusters": map[string]interface{}{"type": "integer", "description": "Number of clusters (default: 3)"},
					},
				},
			},
			map[string]interface{}{
				"name":        "assess_churn_risk",
				"description": "Estimate a churn probability per owner from activity recency, revenue, deal volume and relationship strength, sorted by risk descending.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
		},
	}
}
