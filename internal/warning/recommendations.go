package warning

import "github.com/couchcryptid/weather-prediction-service/internal/domain"

// fallbackRecommendations is returned when a type/severity combination
// has no table entry, so a warning never ships without guidance.
var fallbackRecommendations = []string{
	"Monitor weather conditions closely",
	"Follow guidance from local authorities",
	"Have emergency supplies ready",
}

// recommendationsFor looks up the safety recommendations for a warning
// type and severity. Never returns an empty list.
func recommendationsFor(warningType domain.WarningType, severity domain.Severity) []string {
	bySeverity, ok := recommendationTable[warningType]
	if !ok {
		return fallbackRecommendations
	}
	recs, ok := bySeverity[severity]
	if !ok || len(recs) == 0 {
		return fallbackRecommendations
	}
	return recs
}

var recommendationTable = map[domain.WarningType]map[domain.Severity][]string{
	domain.WarningExtremeHeat: {
		domain.SeverityLow: {
			"Stay hydrated by drinking plenty of water",
			"Avoid prolonged outdoor activities during peak hours",
			"Wear light-colored, loose-fitting clothing",
		},
		domain.SeverityModerate: {
			"Limit outdoor activities to early morning or evening",
			"Drink water regularly, even if not thirsty",
			"Seek air-conditioned spaces during the hottest part of the day",
			"Check on elderly neighbors and relatives",
		},
		domain.SeverityHigh: {
			"Avoid outdoor activities during daytime hours",
			"Stay in air-conditioned buildings when possible",
			"Never leave children or pets in vehicles",
			"Watch for signs of heat exhaustion and heat stroke",
			"Drink water every 15-20 minutes",
		},
		domain.SeveritySevere: {
			"Stay indoors in air-conditioned spaces",
			"Avoid all non-essential outdoor activities",
			"Seek immediate medical attention for heat-related illness",
			"Check on vulnerable community members frequently",
			"Consider relocating to cooling centers if needed",
		},
	},
	domain.WarningExtremeCold: {
		domain.SeverityLow: {
			"Dress in layers and cover exposed skin outdoors",
			"Protect pipes from freezing overnight",
			"Bring pets indoors",
		},
		domain.SeverityModerate: {
			"Limit time outdoors and take warm-up breaks",
			"Keep an emergency kit and blankets in vehicles",
			"Check heating fuel supplies",
			"Check on elderly neighbors and relatives",
		},
		domain.SeverityHigh: {
			"Avoid unnecessary travel",
			"Watch for signs of frostbite and hypothermia",
			"Never use outdoor heaters or grills indoors",
			"Keep faucets dripping to prevent pipe bursts",
		},
		domain.SeveritySevere: {
			"Stay indoors; exposed skin can freeze in minutes",
			"Travel only in an emergency and tell others your route",
			"Seek immediate medical attention for hypothermia symptoms",
			"Check on vulnerable community members frequently",
		},
	},
	domain.WarningHighWind: {
		domain.SeverityLow: {
			"Secure loose outdoor objects",
			"Be cautious when driving high-profile vehicles",
			"Avoid outdoor activities involving heights",
		},
		domain.SeverityModerate: {
			"Secure or bring indoors all loose outdoor items",
			"Avoid driving high-profile vehicles if possible",
			"Stay away from trees and power lines",
			"Postpone outdoor recreational activities",
		},
		domain.SeverityHigh: {
			"Avoid unnecessary travel",
			"Stay indoors and away from windows",
			"Secure outdoor furniture and decorations",
			"Be prepared for possible power outages",
			"Avoid areas with trees and power lines",
		},
		domain.SeveritySevere: {
			"Stay indoors and avoid travel",
			"Move to interior rooms away from windows",
			"Have emergency supplies ready",
			"Expect widespread power outages",
			"Avoid areas with trees, power lines, and large structures",
		},
	},
	domain.WarningFlood: {
		domain.SeverityLow: {
			"Avoid low-lying areas and underpasses",
			"Monitor local weather updates",
			"Prepare emergency supplies",
		},
		domain.SeverityModerate: {
			"Avoid driving through flooded roads",
			"Move to higher ground if in flood-prone areas",
			"Have evacuation plan ready",
			"Monitor emergency broadcasts",
		},
		domain.SeverityHigh: {
			"Evacuate flood-prone areas immediately",
			"Never drive through flooded roads",
			"Move to higher floors or higher ground",
			"Have emergency supplies and communication ready",
			"Follow evacuation orders from authorities",
		},
		domain.SeveritySevere: {
			"Evacuate immediately if ordered by authorities",
			"Move to highest available ground",
			"Avoid all flooded areas",
			"Have emergency communication and supplies",
			"Do not return to evacuated areas until cleared by officials",
		},
	},
	domain.WarningStorm: {
		domain.SeverityLow: {
			"Secure loose outdoor objects",
			"Avoid outdoor activities",
			"Monitor weather updates",
		},
		domain.SeverityModerate: {
			"Stay indoors during the storm",
			"Avoid using electrical appliances",
			"Stay away from windows and doors",
			"Have flashlights and batteries ready",
		},
		domain.SeverityHigh: {
			"Stay indoors in interior rooms",
			"Avoid windows and electrical equipment",
			"Have emergency supplies ready",
			"Be prepared for power outages",
			"Avoid travel during the storm",
		},
		domain.SeveritySevere: {
			"Take shelter in interior rooms on lowest floor",
			"Stay away from windows, doors, and electrical equipment",
			"Have emergency supplies and communication ready",
			"Expect extended power outages",
			"Follow emergency broadcasts and evacuation orders",
		},
	},
	domain.WarningAirQuality: {
		domain.SeverityLow: {
			"Sensitive groups should limit prolonged outdoor exertion",
			"Keep windows closed during peak heat",
			"Monitor local air quality reports",
		},
		domain.SeverityModerate: {
			"Limit outdoor exercise, especially midday",
			"Keep windows closed and use filtered ventilation if available",
			"People with respiratory conditions should keep medication at hand",
		},
	},
}
