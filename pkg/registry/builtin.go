package registry

var builtinThemes = []Theme{
	{ID: "software_professional", Name: "Software Professional", Description: "Tech/enterprise", AccentColor: "#1C3A56"},
	{ID: "church_warmth", Name: "Church Warmth", Description: "Ministry", AccentColor: "#78512D"},
	{ID: "startup_vibrant", Name: "Startup Vibrant", Description: "Bold & energetic", AccentColor: "#FF6B35"},
	{ID: "executive_minimal", Name: "Executive Minimal", Description: "Clean C-suite", AccentColor: "#2C3E50"},
	{ID: "creative_bold", Name: "Creative Bold", Description: "Vibrant creative", AccentColor: "#5D3A9B"},
	{ID: "tech_modern", Name: "Tech Modern", Description: "Modern SaaS", AccentColor: "#0A192F"},
	{ID: "healthcare_trust", Name: "Healthcare Trust", Description: "Medical", AccentColor: "#0E4C92"},
	{ID: "education_friendly", Name: "Education Friendly", Description: "Approachable", AccentColor: "#2A7C6F"},
	{ID: "finance_corporate", Name: "Finance Corporate", Description: "Conservative", AccentColor: "#003049"},
	{ID: "marketing_dynamic", Name: "Marketing Dynamic", Description: "Eye-catching", AccentColor: "#D62828"},
	{ID: "nonprofit_warm", Name: "Nonprofit Warm", Description: "Compassionate", AccentColor: "#4A5859"},
}

// CustomCategory is where user-supplied templates are listed.
const CustomCategory = "custom"

var builtinCategories = []Category{
	{
		Name: "church",
		Templates: []Template{
			{ID: "sermon", Name: "Sunday Sermon", Description: "Scripture, points & application", Fields: []string{"sermon_title", "scripture_reference", "date", "context_1", "point_1_title", "application_1"}},
			{ID: "church_board", Name: "Board Meeting", Description: "Leadership & decisions", Fields: []string{"church_name", "meeting_date", "attendance", "income", "expenses", "decision_1"}},
			{ID: "staff_meeting", Name: "Staff Meeting", Description: "Weekly coordination", Fields: []string{"church_name", "week_of", "services", "theme", "prayer_1"}},
		},
	},
	{
		Name: CustomCategory,
		Templates: []Template{
			{ID: "custom_template", Name: "Custom Template", Description: "Use your uploaded template", Fields: []string{"title", "presenter", "date", "content"}, IsCustom: true},
		},
	},
	{
		Name: "business",
		Templates: []Template{
			{ID: "quarterly_review", Name: "Quarterly Business Review", Description: "Executive QBR with financials", Fields: []string{"quarter", "company_name", "revenue", "growth", "customers"}},
			{ID: "sales_pitch", Name: "Sales Pitch Deck", Description: "Product pitch for prospects", Fields: []string{"product_name", "tagline", "pain_1", "benefit_1", "price_1"}},
			{ID: "investor_pitch", Name: "Investor Pitch", Description: "Fundraising deck", Fields: []string{"company_name", "tagline", "market_size", "raise_amount", "revenue"}},
		},
	},
	{
		Name: "marketing",
		Templates: []Template{
			{ID: "campaign_review", Name: "Campaign Review", Description: "Marketing performance", Fields: []string{"campaign_name", "objective", "budget", "impressions", "roi"}},
			{ID: "product_launch", Name: "Product Launch", Description: "GTM strategy", Fields: []string{"product_name", "description", "target", "date", "channel_1"}},
		},
	},
	{
		Name: "education",
		Templates: []Template{
			{ID: "course_overview", Name: "Course Overview", Description: "Syllabus intro", Fields: []string{"course_name", "instructor_name", "objective_1", "topic_1", "textbook"}},
			{ID: "training_module", Name: "Training Module", Description: "Employee training", Fields: []string{"training_topic", "objective_1", "section_1_title", "takeaway_1"}},
		},
	},
	{
		Name: "government",
		Templates: []Template{
			{ID: "policy_briefing", Name: "Policy Briefing", Description: "Policy proposal", Fields: []string{"policy_name", "summary_1", "current_1", "provision_1", "budget_impact"}},
			{ID: "public_meeting", Name: "Public Meeting", Description: "Community hearing", Fields: []string{"meeting_topic", "date", "agenda_1", "overview_1", "contact"}},
		},
	},
}
