// Package chat answers free-text visitor messages with canned replies chosen
// by keyword.
package chat

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultAgentName names the assistant when none is configured.
const DefaultAgentName = "Jane Doe"

var (
	greetingPattern = regexp.MustCompile(`^(hi|hello|hey|good morning|good afternoon|good evening)`)
	bedroomPattern  = regexp.MustCompile(`\d+\s*br`)
)

// Topic names the rule that produced a reply.
type Topic string

// Topics in evaluation order.
const (
	TopicGreeting  Topic = "greeting"
	TopicPricing   Topic = "pricing"
	TopicBedrooms  Topic = "bedrooms"
	TopicLocation  Topic = "location"
	TopicTour      Topic = "tour"
	TopicKind      Topic = "property-type"
	TopicAmenities Topic = "amenities"
	TopicThanks    Topic = "thanks"
	TopicDefault   Topic = "default"
)

type rule struct {
	topic Topic
	match func(lower string) bool
	reply func(agent string) string
}

func containsAny(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}

func fixed(text string) func(string) string {
	return func(string) string { return text }
}

var rules = []rule{
	{
		topic: TopicGreeting,
		match: greetingPattern.MatchString,
		reply: func(agent string) string {
			return fmt.Sprintf("Hello! I'm %s, your real estate assistant. I'm here to help you find your dream property. What are you looking for today?", agent)
		},
	},
	{
		topic: TopicPricing,
		match: containsAny("price", "cost", "budget", "afford"),
		reply: fixed("I understand you're interested in pricing. Our properties range from $500K to $5M depending on location, size, and amenities. What's your budget range, and I can show you some great options?"),
	},
	{
		topic: TopicBedrooms,
		match: func(s string) bool { return containsAny("bedroom", "bed")(s) || bedroomPattern.MatchString(s) },
		reply: fixed("We have properties ranging from studios to 6-bedroom luxury homes. How many bedrooms do you need? Also, any preference for bathrooms or square footage?"),
	},
	{
		topic: TopicLocation,
		match: containsAny("location", "area", "where", "city", "neighborhood"),
		reply: fixed("We have stunning properties in prime locations including Miami, New York, Los Angeles, Austin, and more. Which area interests you most? I can tell you about the neighborhoods and amenities."),
	},
	{
		topic: TopicTour,
		match: containsAny("tour", "visit", "viewing", "see", "show"),
		reply: fixed("I'd be happy to arrange a property tour for you! Would you prefer a virtual tour or an in-person viewing? I can schedule it at your convenience. Which property caught your eye?"),
	},
	{
		topic: TopicKind,
		match: containsAny("house", "condo", "apartment", "villa", "townhouse"),
		reply: fixed("Great choice! We have beautiful options in that category. What's most important to you - location, size, amenities, or price? This will help me find the perfect match."),
	},
	{
		topic: TopicAmenities,
		match: containsAny("pool", "gym", "parking", "garden", "amenities"),
		reply: fixed("We have properties with fantastic amenities including pools, gyms, parking, gardens, and more. What specific amenities are must-haves for you?"),
	},
	{
		topic: TopicThanks,
		match: containsAny("thank"),
		reply: fixed("You're very welcome! I'm here to help. Is there anything else you'd like to know about our properties or the buying process?"),
	},
}

const defaultReply = "That's a great question! As your real estate assistant, I'm here to help you find the perfect property. Could you tell me more about what you're looking for? For example, your preferred location, budget, number of bedrooms, or any specific features you want?"

// Responder picks canned replies on behalf of a named agent.
type Responder struct {
	agent string
}

// NewResponder returns a responder speaking as agent.
func NewResponder(agent string) *Responder {
	if strings.TrimSpace(agent) == "" {
		agent = DefaultAgentName
	}
	return &Responder{agent: agent}
}

// AgentName returns the name used in greetings.
func (r *Responder) AgentName() string { return r.agent }

// Reply returns the first matching canned reply.
func (r *Responder) Reply(message string) string {
	_, reply := r.Classify(message)
	return reply
}

// Classify returns the matched topic together with the reply.
func (r *Responder) Classify(message string) (Topic, string) {
	lower := strings.ToLower(message)
	for _, rl := range rules {
		if rl.match(lower) {
			return rl.topic, rl.reply(r.agent)
		}
	}
	return TopicDefault, defaultReply
}
