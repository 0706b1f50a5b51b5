// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import "time"

// pageResponse mirrors GET /character/?page=N.
type pageResponse struct {
	Info    infoResponse        `json:"info"`
	Results []characterResponse `json:"results"`
}

type infoResponse struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// characterResponse mirrors GET /character/{id} and each page result.
type characterResponse struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Status   string           `json:"status"`
	Species  string           `json:"species"`
	Type     string           `json:"type"`
	Gender   string           `json:"gender"`
	Origin   locationResponse `json:"origin"`
	Location locationResponse `json:"location"`
	Image    string           `json:"image"`
	Episode  []string         `json:"episode"`
	URL      string           `json:"url"`
	Created  time.Time        `json:"created"`
}

type locationResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// errorResponse is the upstream error body, e.g. {"error":"There is nothing here"}.
type errorResponse struct {
	Error string `json:"error"`
}

func (dto characterResponse) toDomain() Character {
	episodes := make([]string, len(dto.Episode))
	copy(episodes, dto.Episode)

	return Character{
		ID:       dto.ID,
		Name:     dto.Name,
		Status:   dto.Status,
		Species:  dto.Species,
		Type:     dto.Type,
		Gender:   dto.Gender,
		Origin:   Location(dto.Origin),
		Location: Location(dto.Location),
		Image:    dto.Image,
		Episodes: episodes,
		URL:      dto.URL,
		Created:  dto.Created,
	}
}
