package quiz

// DefaultBank returns the Factory Method micro-quiz bank used by the
// classroom deployment. Content tracks the module's instructional design
// document; item ids are stable and referenced by stored attempt records,
// so they must never be renumbered.
func DefaultBank() []MicroQuiz {
	return []MicroQuiz{
		{
			ID:    "mq1",
			Title: "MQ1: Intent and recognition",
			Desc:  "Why patterns, FM intent, and the rule that clients do not construct concretes.",
			Items: []Item{
				{
					ID:     "mq1_q1",
					Type:   TypeMCQSingle,
					Prompt: "Factory Method is a ___ pattern used to ___.",
					Options: []Option{
						{Key: "A", Text: "creational; delegate object creation to subclasses"},
						{Key: "B", Text: "structural; share state across instances"},
						{Key: "C", Text: "behavioral; broadcast events to observers"},
					},
					Answer:           AnswerKey{Key: "A"},
					Marks:            2,
					LOIDs:            []int{1, 2, 3, 4, 6},
					ErrorClassOnMiss: "intent-or-classification-misunderstood",
				},
				{
					ID:               "mq1_q2",
					Type:             TypeFITB,
					Prompt:           "In FM, the client must not construct ______ types directly.",
					Answer:           AnswerKey{Accepted: []string{"concrete"}, Rubric: "concrete"},
					Marks:            1,
					LOIDs:            []int{4, 9},
					ErrorClassOnMiss: "client-still-constructs",
				},
				{
					ID:     "mq1_q3",
					Type:   TypeMCQSingle,
					Prompt: "Which cue best suggests FM over Simple Factory?",
					Options: []Option{
						{Key: "A", Text: "Need to choose families together"},
						{Key: "B", Text: "Creation varies in subclasses via an override"},
						{Key: "C", Text: "No polymorphism is needed"},
					},
					Answer:           AnswerKey{Key: "B"},
					Marks:            2,
					LOIDs:            []int{6, 9},
					ErrorClassOnMiss: "pattern-triage-confusion",
				},
			},
			TargetLOs: []int{1, 2, 3, 4, 6, 9},
		},
		{
			ID:    "mq2",
			Title: "MQ2: Canonical UML roles",
			Desc:  "Label Creator/Product roles, abstract markers, and factory return types.",
			Items: []Item{
				{
					ID:     "mq2_q1",
					Type:   TypeMCQSingle,
					Prompt: "Which role declares the factory operation that returns Product?",
					Options: []Option{
						{Key: "A", Text: "Creator"},
						{Key: "B", Text: "ConcreteProduct"},
						{Key: "C", Text: "Client"},
					},
					Answer:           AnswerKey{Key: "A"},
					Marks:            2,
					LOIDs:            []int{5, 7, 13},
					ErrorClassOnMiss: "uml-roles-mislabelled",
				},
				{
					ID:               "mq2_q2",
					Type:             TypeFITB,
					Prompt:           "In the UML, the factory returns the base type ______.",
					Answer:           AnswerKey{Accepted: []string{"Product"}, Rubric: "Product"},
					Marks:            2,
					LOIDs:            []int{5, 13},
					ErrorClassOnMiss: "wrong-factory-return-type",
				},
			},
			TargetLOs: []int{5, 7, 13},
		},
		{
			ID:    "mq3",
			Title: "MQ3: Code ⇔ UML mapping",
			Desc:  "Map code cues to UML and back.",
			Items: []Item{
				{
					ID:     "mq3_q1",
					Type:   TypeMCQSingle,
					Prompt: "Which UML relationship represents ConcreteCreator inheriting from Creator?",
					Options: []Option{
						{Key: "A", Text: "Association"},
						{Key: "B", Text: "Generalisation (open triangle arrow)"},
						{Key: "C", Text: "Aggregation"},
					},
					Answer:           AnswerKey{Key: "B"},
					Marks:            2,
					LOIDs:            []int{10, 12, 23},
					ErrorClassOnMiss: "uml-relationship-misused",
				},
				{
					ID:               "mq3_q2",
					Type:             TypeFITB,
					Prompt:           "The factory operation on Creator should return the base type ______.",
					Answer:           AnswerKey{Accepted: []string{"Product"}, Rubric: "Product"},
					Marks:            1,
					LOIDs:            []int{10, 23},
					ErrorClassOnMiss: "wrong-factory-return-type",
				},
				{
					ID:     "mq3_q3",
					Type:   TypeMCQSingle,
					Prompt: "[IMAGE REQUIRED: uml_mq3_q3.png] Which diagram correctly shows the factory op on Creator returning Product?",
					Options: []Option{
						{Key: "A", Text: "Diagram A"},
						{Key: "B", Text: "Diagram B"},
						{Key: "C", Text: "Diagram C"},
					},
					Answer:           AnswerKey{Key: "A"},
					Marks:            2,
					LOIDs:            []int{10, 12, 23},
					ErrorClassOnMiss: "factory-signature-wrong",
				},
			},
			TargetLOs: []int{10, 12, 23},
		},
		{
			ID:    "mq4",
			Title: "MQ4: Code role cues and lifecycle",
			Desc:  "Recognise roles and required lifecycle contracts.",
			Items: []Item{
				{
					ID:     "mq4_q1",
					Type:   TypeMCQMulti,
					Prompt: "Select all cues that a class is a Creator in FM.",
					Options: []Option{
						{Key: "A", Text: "Declares virtual factory returning Product"},
						{Key: "B", Text: "Overrides factory and returns ConcreteProduct"},
						{Key: "C", Text: "Has a public field of ConcreteProduct type"},
					},
					Answer:           AnswerKey{Keys: []string{"A", "B"}},
					Marks:            2,
					LOIDs:            []int{14, 17, 18},
					ErrorClassOnMiss: "role-cues-misidentified",
				},
				{
					ID:               "mq4_q2",
					Type:             TypeFITB,
					Prompt:           "To delete via a Product* safely, Product needs a ______ destructor.",
					Answer:           AnswerKey{Accepted: []string{"virtual"}, Rubric: "virtual"},
					Marks:            2,
					LOIDs:            []int{19, 20},
					ErrorClassOnMiss: "missing-virtual-destructor",
				},
				{
					ID:     "mq4_q3",
					Type:   TypeMCQSingle,
					Prompt: "[IMAGE REQUIRED: code_mq4_q3.png] Which snippet will cause undefined behavior when deleting via Product*?",
					Options: []Option{
						{Key: "A", Text: "Snippet A: Product has virtual ~Product()."},
						{Key: "B", Text: "Snippet B: Product lacks a virtual destructor."},
						{Key: "C", Text: "Snippet C: Product destructor is defaulted and virtual."},
					},
					Answer:           AnswerKey{Key: "B"},
					Marks:            1,
					LOIDs:            []int{19, 20},
					ErrorClassOnMiss: "lifecycle-contract-missed",
				},
			},
			TargetLOs: []int{14, 17, 18, 19, 20},
		},
		{
			ID:    "mq5",
			Title: "MQ5: Refactor to Factory Method",
			Desc:  "Move creation into the factory and keep client abstract.",
			Items: []Item{
				{
					ID:     "mq5_q1",
					Type:   TypeMCQSingle,
					Prompt: "Which change removes client coupling to Concrete?",
					Options: []Option{
						{Key: "A", Text: "Client includes ConcreteA.h directly"},
						{Key: "B", Text: "Client calls Creator::make() and uses Product*"},
						{Key: "C", Text: "Client switches on a type enum to new a concrete"},
					},
					Answer:           AnswerKey{Key: "B"},
					Marks:            3,
					LOIDs:            []int{21},
					ErrorClassOnMiss: "client-still-constructs",
				},
				{
					ID:     "mq5_q2",
					Type:   TypeFITB,
					Prompt: "After refactoring, the client should invoke ________ instead of constructing concretes.",
					Answer: AnswerKey{
						Accepted: []string{"Creator::make()", "Creator::make", "the factory method"},
						Rubric:   "Creator::make()",
					},
					Marks:            2,
					LOIDs:            []int{21},
					ErrorClassOnMiss: "wrong-call-site",
				},
			},
			TargetLOs: []int{21},
		},
		{
			ID:    "mq6",
			Title: "MQ6: Extension and pattern discrimination",
			Desc:  "Add variants cleanly and tell FM vs AF vs Simple apart.",
			Items: []Item{
				{
					ID:     "mq6_q1",
					Type:   TypeMCQSingle,
					Prompt: "You add a new ConcreteProduct and ConcreteCreator while the client stays unchanged. Which pattern does this cue?",
					Options: []Option{
						{Key: "A", Text: "Factory Method"},
						{Key: "B", Text: "Simple Factory"},
						{Key: "C", Text: "Abstract Factory"},
					},
					Answer:           AnswerKey{Key: "A"},
					Marks:            2,
					LOIDs:            []int{12, 22},
					ErrorClassOnMiss: "pattern-triage-confusion",
				},
				{
					ID:     "mq6_q2",
					Type:   TypeMCQSingle,
					Prompt: "Families chosen together with fixed combinations is a decisive cue for _____.",
					Options: []Option{
						{Key: "A", Text: "Factory Method"},
						{Key: "B", Text: "Abstract Factory"},
						{Key: "C", Text: "Simple Factory"},
					},
					Answer:           AnswerKey{Key: "B"},
					Marks:            2,
					LOIDs:            []int{12, 15},
					ErrorClassOnMiss: "af-vs-fm-confusion",
				},
				{
					ID:               "mq6_q3",
					Type:             TypeFITB,
					Prompt:           "In FM, adding ConcreteProductB usually implies adding a matching ________.",
					Answer:           AnswerKey{Accepted: []string{"ConcreteCreatorB"}, Rubric: "ConcreteCreatorB"},
					Marks:            1,
					LOIDs:            []int{22},
					ErrorClassOnMiss: "extension-mechanics-missed",
				},
			},
			TargetLOs: []int{12, 15, 22},
		},
	}
}
