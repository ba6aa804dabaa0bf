package database

import (
	"suraksha_backend/internal/model"

	"gorm.io/gorm"
)

// SeedDefaults 用默认课程内容填充空库，表非空则跳过，保证幂等
func SeedDefaults(db *gorm.DB) error {
	var count int64
	db.Model(&model.DisasterModule{}).Count(&count)
	if count == 0 {
		for _, m := range defaultModules() {
			if err := db.Create(&m).Error; err != nil {
				return err
			}
		}
	}

	var contactCount int64
	db.Model(&model.EmergencyContact{}).Count(&contactCount)
	if contactCount == 0 {
		for _, c := range defaultContacts() {
			if err := db.Create(&c).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func defaultModules() []model.DisasterModule {
	return []model.DisasterModule{
		{
			Slug:        "earthquake",
			Title:       "Earthquake Safety",
			Description: "Learn how to stay safe during earthquakes with Drop, Cover, and Hold On techniques.",
			Icon:        "🏗️",
			Color:       "primary",
			IsActive:    true,
			Phases: []model.ModulePhase{
				{
					PhaseType:    model.PhaseBefore,
					Title:        "Preparedness (Before an Earthquake)",
					ContentFocus: "Learn how to stay ready at school, home, and community. Build emergency kits and know safe zones.",
					Format:       "checklist",
					Checklists: []model.PhaseChecklist{
						{Item: "Create an emergency kit with water, food, and supplies", OrderIndex: 1},
						{Item: "Secure heavy furniture and appliances", OrderIndex: 2},
						{Item: "Identify safe spots in each room (under sturdy tables)", OrderIndex: 3},
						{Item: "Practice Drop, Cover, and Hold On", OrderIndex: 4},
						{Item: "Create a family emergency plan", OrderIndex: 5},
					},
				},
				{
					PhaseType:    model.PhaseDuring,
					Title:        "Response (During an Earthquake)",
					ContentFocus: "Know the correct actions depending on location. Avoid panic and unsafe moves.",
					Format:       "action_guide",
					Steps: []model.PhaseStep{
						{Step: "DROP", Description: "Drop to your hands and knees immediately", Animation: "drop", Location: "indoors", OrderIndex: 1},
						{Step: "COVER", Description: "Take cover under a sturdy desk or table", Animation: "cover", Location: "indoors", OrderIndex: 2},
						{Step: "HOLD ON", Description: "Hold on to your shelter and protect your head and neck", Animation: "hold", Location: "indoors", OrderIndex: 3},
					},
				},
				{
					PhaseType:    model.PhaseAfter,
					Title:        "Recovery (After an Earthquake)",
					ContentFocus: "Learn safe behavior after shaking stops. Help yourself and others responsibly.",
					Format:       "qa",
					QAItems: []model.PhaseQA{
						{Question: "What should you check for first after the shaking stops?", Answer: "Check yourself and others for injuries and give first aid where needed.", Category: "first_aid"},
						{Question: "Should you re-enter damaged buildings?", Answer: "No. Stay away from damaged buildings and be alert for aftershocks.", Category: "evacuation"},
						{Question: "How should you contact family after an earthquake?", Answer: "Use text messages instead of calling to keep phone lines free for emergencies.", Category: "communication"},
					},
				},
			},
			Questions: []model.QuizQuestion{
				{
					Question:      "What should you do when the ground starts shaking?",
					Options:       []string{"Run outside immediately", "Drop, Cover, and Hold On", "Stand in a doorway", "Hide under stairs"},
					CorrectAnswer: 1,
					Phase:         model.PhaseDuring,
				},
				{
					Question:      "What is the safest place during an earthquake indoors?",
					Options:       []string{"Under a desk or table", "In a doorway", "Against an exterior wall", "In the center of the room"},
					CorrectAnswer: 0,
					Phase:         model.PhaseDuring,
				},
			},
			Scenarios: []model.DrillScenario{
				{
					Situation:  "You feel the ground shaking while in your classroom. What do you do?",
					OrderIndex: 1,
					Choices: []model.DrillChoice{
						{Text: "Drop under your desk immediately", Correct: true, Feedback: "Correct! Drop, Cover, and Hold On is the right response.", OrderIndex: 1},
						{Text: "Run to the exit", Correct: false, Feedback: "Incorrect. Moving during shaking increases injury risk. Drop where you are!", OrderIndex: 2},
					},
				},
			},
		},
		{
			Slug:        "fire",
			Title:       "Fire Emergency",
			Description: "Master fire safety protocols, evacuation routes, and prevention techniques.",
			Icon:        "🔥",
			Color:       "emergency",
			IsActive:    true,
			Phases: []model.ModulePhase{
				{
					PhaseType:    model.PhaseBefore,
					Title:        "Fire Prevention",
					ContentFocus: "Identify fire hazards early and keep escape routes clear.",
					Format:       "checklist",
					Checklists: []model.PhaseChecklist{
						{Item: "Know the location of fire extinguishers and alarms", OrderIndex: 1},
						{Item: "Keep exits and corridors free of obstructions", OrderIndex: 2},
						{Item: "Never overload electrical sockets", OrderIndex: 3},
						{Item: "Learn your building's evacuation routes and assembly point", OrderIndex: 4},
					},
				},
				{
					PhaseType:    model.PhaseDuring,
					Title:        "Evacuation",
					ContentFocus: "React to alarms immediately and evacuate safely through smoke.",
					Format:       "action_guide",
					Steps: []model.PhaseStep{
						{Step: "ALERT", Description: "Raise the alarm and alert others immediately", Animation: "alert", Location: "indoors", OrderIndex: 1},
						{Step: "STAY LOW", Description: "Crawl low under smoke to the nearest exit", Animation: "crawl", Location: "indoors", OrderIndex: 2},
						{Step: "EVACUATE", Description: "Use stairs, never elevators, and go to the assembly point", Animation: "evacuate", Location: "indoors", OrderIndex: 3},
					},
				},
				{
					PhaseType:    model.PhaseAfter,
					Title:        "After a Fire",
					ContentFocus: "Stay out of the building and account for everyone.",
					Format:       "qa",
					QAItems: []model.PhaseQA{
						{Question: "When is it safe to re-enter a building after a fire alarm?", Answer: "Only after emergency services declare the building safe.", Category: "evacuation"},
						{Question: "What should you do at the assembly point?", Answer: "Report to the person taking roll so everyone is accounted for.", Category: "accountability"},
					},
				},
			},
			Questions: []model.QuizQuestion{
				{
					Question:      "If you see smoke, what should you do first?",
					Options:       []string{"Open windows for ventilation", "Alert others immediately", "Try to find the source", "Call 911 first"},
					CorrectAnswer: 1,
					Phase:         model.PhaseDuring,
				},
				{
					Question:      "When evacuating during a fire, you should:",
					Options:       []string{"Use elevators for speed", "Stay low to avoid smoke", "Take personal belongings", "Go back for others"},
					CorrectAnswer: 1,
					Phase:         model.PhaseDuring,
				},
			},
			Scenarios: []model.DrillScenario{
				{
					Situation:  "The fire alarm goes off in your building. What is your first action?",
					OrderIndex: 1,
					Choices: []model.DrillChoice{
						{Text: "Stop what you're doing and evacuate via nearest exit", Correct: true, Feedback: "Perfect! Always treat fire alarms seriously and evacuate immediately.", OrderIndex: 1},
						{Text: "Finish your current task first", Correct: false, Feedback: "Never delay evacuation! Every second counts in fire emergencies.", OrderIndex: 2},
					},
				},
			},
		},
		{
			Slug:        "flood",
			Title:       "Flood Response",
			Description: "Understand flood risks, evacuation procedures, and water safety measures.",
			Icon:        "🌊",
			Color:       "accent",
			IsActive:    true,
			Phases: []model.ModulePhase{
				{
					PhaseType:    model.PhaseBefore,
					Title:        "Flood Preparedness",
					ContentFocus: "Know your flood risk and prepare to move fast when warnings come.",
					Format:       "checklist",
					Checklists: []model.PhaseChecklist{
						{Item: "Know whether your area is in a flood-prone zone", OrderIndex: 1},
						{Item: "Keep important documents in a waterproof container", OrderIndex: 2},
						{Item: "Prepare an emergency kit you can carry", OrderIndex: 3},
						{Item: "Identify higher ground and safe evacuation routes", OrderIndex: 4},
					},
				},
				{
					PhaseType:    model.PhaseDuring,
					Title:        "During a Flood",
					ContentFocus: "Move to higher ground and never walk or drive through flood water.",
					Format:       "action_guide",
					Steps: []model.PhaseStep{
						{Step: "MOVE UP", Description: "Move to the highest floor or higher ground immediately", Animation: "climb", Location: "indoors", OrderIndex: 1},
						{Step: "AVOID WATER", Description: "Never walk or drive through moving flood water", Animation: "stop", Location: "outdoors", OrderIndex: 2},
						{Step: "STAY INFORMED", Description: "Follow official alerts and instructions from authorities", Animation: "radio", Location: "anywhere", OrderIndex: 3},
					},
				},
				{
					PhaseType:    model.PhaseAfter,
					Title:        "After a Flood",
					ContentFocus: "Return only when authorities say it is safe and beware of contaminated water.",
					Format:       "qa",
					QAItems: []model.PhaseQA{
						{Question: "Is flood water safe to touch once it stops rising?", Answer: "No. Flood water may be contaminated or hide electrical hazards and debris.", Category: "safety"},
						{Question: "When can you return home after evacuating?", Answer: "Only after authorities declare the area safe to re-enter.", Category: "evacuation"},
					},
				},
			},
			Questions: []model.QuizQuestion{
				{
					Question:      "How much water can knock you down?",
					Options:       []string{"1 foot", "6 inches", "2 feet", "3 inches"},
					CorrectAnswer: 1,
					Phase:         model.PhaseDuring,
				},
				{
					Question:      "During a flood warning, you should:",
					Options:       []string{"Wait for more information", "Move to higher ground", "Stay in basement", "Drive through flooded roads"},
					CorrectAnswer: 1,
					Phase:         model.PhaseDuring,
				},
			},
			Scenarios: []model.DrillScenario{
				{
					Situation:  "You receive a flood warning alert. What should you do?",
					OrderIndex: 1,
					Choices: []model.DrillChoice{
						{Text: "Move to the highest floor available", Correct: true, Feedback: "Excellent! Moving to higher ground is the safest approach.", OrderIndex: 1},
						{Text: "Stay on the ground floor to monitor the situation", Correct: false, Feedback: "Dangerous! Always move to higher ground when flooding is possible.", OrderIndex: 2},
					},
				},
			},
		},
	}
}

func defaultContacts() []model.EmergencyContact {
	return []model.EmergencyContact{
		{Name: "Campus Security", Role: "Security Officer", Phone: "911", Email: "security@university.edu", Department: "University Security Office", Priority: 1, IsActive: true},
		{Name: "Fire Department", Role: "Fire Chief", Phone: "911", Department: "City Fire Department", Priority: 1, IsActive: true},
		{Name: "Medical Emergency", Role: "Emergency Medical Technician", Phone: "911", Email: "health@university.edu", Department: "Campus Health Services", Priority: 1, IsActive: true},
		{Name: "Campus Emergency Coordinator", Role: "Emergency Manager", Phone: "+1-555-CAMPUS", Email: "emergency@university.edu", Department: "University Emergency Management", Priority: 2, IsActive: true},
	}
}
