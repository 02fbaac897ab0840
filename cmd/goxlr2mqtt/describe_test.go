package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/berfenger/goxlr2mqtt/internal/util"
	"github.com/berfenger/goxlr2mqtt/pkg/goxlr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {

	cfg := util.LoadTestConfig()

	described, err := describe(&cfg, goxlr.TestMixerStatus())
	require.NoError(t, err)
	require.NotEmpty(t, described)

	byId := map[string]describedEntity{}
	for _, d := range described {
		byId[d.UniqueId] = d
	}
	assert.Equal(t, describedEntity{
		UniqueId: "tc-helicon_goxlr_accent",
		Name:     "TC-Helicon GoXLR Accent",
		Platform: "light",
		Device:   goxlr.TEST_SERIAL,
	}, byId["tc-helicon_goxlr_accent"])
	assert.Equal(t, "sensor", byId["tc-helicon_goxlr_profile"].Platform)
}

func TestPrintDescribed(t *testing.T) {

	described := []describedEntity{{
		UniqueId: "tc-helicon_goxlr_accent",
		Name:     "TC-Helicon GoXLR Accent",
		Platform: "light",
		Device:   goxlr.TEST_SERIAL,
	}}

	var table bytes.Buffer
	require.NoError(t, printDescribed(&table, described, false))
	assert.Contains(t, table.String(), "UNIQUE ID")
	assert.Contains(t, table.String(), "tc-helicon_goxlr_accent")

	var out bytes.Buffer
	require.NoError(t, printDescribed(&out, described, true))
	var decoded []describedEntity
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, described, decoded)
}

func TestRootCommand(t *testing.T) {

	root := newRootCommand()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "describe")
}
