// Package alerts implements the rule evaluation engine and webhook delivery
// for ceimd alerting. Rules are evaluated against freshly computed impact
// results; webhooks are delivered to Slack, Teams, or generic HTTP targets.
package alerts
