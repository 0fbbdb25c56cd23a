package model

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type xmlReference struct {
	Reference string `xml:"Reference,attr"`
}

type xmlTimeGroup struct {
	XMLName xml.Name
	Id      string `xml:"Id,attr"`
	Name    string `xml:"Name"`
}

type xmlTime struct {
	Id         string         `xml:"Id,attr"`
	Name       string         `xml:"Name"`
	Week       *xmlReference  `xml:"Week"`
	Day        *xmlReference  `xml:"Day"`
	TimeGroups []xmlReference `xml:"TimeGroups>TimeGroup"`
}

type xmlResource struct {
	Id           string       `xml:"Id,attr"`
	Name         string       `xml:"Name"`
	ResourceType xmlReference `xml:"ResourceType"`
}

type xmlEventResource struct {
	Reference    string       `xml:"Reference,attr"`
	RoleAttr     string       `xml:"Role,attr"`
	Role         string       `xml:"Role"`
	ResourceType xmlReference `xml:"ResourceType"`
}

type xmlEvent struct {
	Id            string             `xml:"Id,attr"`
	Name          string             `xml:"Name"`
	Duration      string             `xml:"Duration"`
	MaxDaily      string             `xml:"MaxDaily"`
	DoubleLessons string             `xml:"DoubleLessons"`
	Resources     []xmlEventResource `xml:"Resources>Resource"`
}

type xmlConstraint struct {
	XMLName    xml.Name
	Id         string         `xml:"Id,attr"`
	Name       string         `xml:"Name"`
	Required   string         `xml:"Required"`
	Weight     string         `xml:"Weight"`
	Resources  []xmlReference `xml:"AppliesTo>Resources>Resource"`
	Times      []xmlReference `xml:"Times>Time"`
	TimeGroups []xmlReference `xml:"TimeGroups>TimeGroup"`
}

type xmlTimes struct {
	TimeGroups struct {
		Items []xmlTimeGroup `xml:",any"` // Day, Week and TimeGroup elements
	} `xml:"TimeGroups"`
	Times []xmlTime `xml:"Time"`
}

type xmlInstance struct {
	Id          string        `xml:"Id,attr"`
	Times       xmlTimes      `xml:"Times"`
	Resources   []xmlResource `xml:"Resources>Resource"`
	Events      []xmlEvent    `xml:"Events>Event"`
	Constraints struct {
		Items []xmlConstraint `xml:",any"`
	} `xml:"Constraints"`
}

type xmlArchive struct {
	Instances []xmlInstance `xml:"Instances>Instance"`
}

func InputFromXml(file string) (Instance, Diagnostics, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Instance{}, nil, fmt.Errorf("cannot read input file: %w", err)
	}
	return DecodeXml(bytes)
}

// DecodeXml reads the first instance of an XHSTT archive and resolves it
func DecodeXml(bytes []byte) (Instance, Diagnostics, error) {
	var archive xmlArchive
	if err := xml.Unmarshal(bytes, &archive); err != nil {
		return Instance{}, nil, fmt.Errorf("malformed xml instance: %w", err)
	}
	if len(archive.Instances) == 0 {
		return Instance{}, nil, fmt.Errorf("malformed xml instance: no instance was found")
	}

	rawInput, diagnostics := archive.Instances[0].toRaw()
	if len(archive.Instances) > 1 {
		diagnostics.warn("archive", "", fmt.Sprintf("%d instances found, only %q is compiled", len(archive.Instances), archive.Instances[0].Id))
	}

	input, processDiagnostics, err := ProcessRawInput(rawInput)
	return input, append(diagnostics, processDiagnostics...), err
}

func (instance xmlInstance) toRaw() (RawInstance, Diagnostics) {
	diagnostics := Diagnostics{}
	rawInput := RawInstance{Name: instance.Id}

	for _, group := range instance.Times.TimeGroups.Items {
		rawInput.TimeGroups = append(rawInput.TimeGroups, RawTimeGroup{Id: group.Id, Name: group.Name, Kind: group.XMLName.Local})
	}

	for _, time := range instance.Times.Times {
		groups := make([]string, 0, len(time.TimeGroups)+2)
		if time.Day != nil {
			groups = append(groups, time.Day.Reference)
		}
		if time.Week != nil {
			groups = append(groups, time.Week.Reference)
		}
		for _, group := range time.TimeGroups {
			groups = append(groups, group.Reference)
		}
		rawInput.Times = append(rawInput.Times, RawTimeslot{Id: time.Id, Name: time.Name, Groups: groups})
	}

	for _, resource := range instance.Resources {
		rawInput.Resources = append(rawInput.Resources, RawResource{Id: resource.Id, Name: resource.Name, Type: resource.ResourceType.Reference})
	}

	for _, event := range instance.Events {
		rawEvent := RawEvent{Id: event.Id, Name: event.Name}
		rawEvent.Duration = parseCount(event.Duration, "duration", event.Id, &diagnostics)
		rawEvent.MaxDaily = parseCount(event.MaxDaily, "max daily", event.Id, &diagnostics)
		rawEvent.DoubleLessons = parseCount(event.DoubleLessons, "double lessons", event.Id, &diagnostics)

		for _, resource := range event.Resources {
			role := strings.TrimSpace(resource.RoleAttr)
			if role == "" {
				role = strings.TrimSpace(resource.Role)
			}
			if role == "" {
				role = resource.ResourceType.Reference
			}
			rawEvent.Resources = append(rawEvent.Resources, RawResourceRole{Reference: resource.Reference, Role: role})
		}

		rawInput.Events = append(rawInput.Events, rawEvent)
	}

	for _, constraint := range instance.Constraints.Items {
		name := strings.TrimSpace(constraint.Name)
		// Descriptors without a recognized name are identified by their element
		if ParseConstraintKind(name) == UnrecognizedConstraint {
			if kind := strings.TrimSuffix(constraint.XMLName.Local, "Constraint"); ParseConstraintKind(kind) != UnrecognizedConstraint {
				name = kind
			}
		}

		rawConstraint := RawConstraint{
			Id:       constraint.Id,
			Name:     name,
			Required: strings.EqualFold(strings.TrimSpace(constraint.Required), "true"),
		}
		if weight := strings.TrimSpace(constraint.Weight); weight != "" {
			if value, err := strconv.ParseFloat(weight, 64); err == nil {
				rawConstraint.Weight = &value
			} else {
				diagnostics.warn("constraint", constraint.Id, fmt.Sprintf("invalid weight %q, default used", weight))
			}
		}
		for _, resource := range constraint.Resources {
			rawConstraint.Resources = append(rawConstraint.Resources, resource.Reference)
		}
		for _, time := range constraint.Times {
			rawConstraint.Times = append(rawConstraint.Times, time.Reference)
		}
		for _, group := range constraint.TimeGroups {
			rawConstraint.TimeGroups = append(rawConstraint.TimeGroups, group.Reference)
		}

		rawInput.Constraints = append(rawInput.Constraints, rawConstraint)
	}

	return rawInput, diagnostics
}

// Absent values yield nil; malformed ones yield nil and a diagnostic
func parseCount(text, field, event string, diagnostics *Diagnostics) *uint64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		diagnostics.warn("event", event, fmt.Sprintf("invalid %v %q", field, text))
		return nil
	}
	return &value
}
