package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMiningStatus(t *testing.T) {
	e := newExecutor(t)
	e.Node.Set("mining", `false`)
	e.Node.Set("hashrate", `52982.2731`)
	e.Node.Set("minerThreads", `2`)
	e.Node.Set("minerAddress", `"`+testAddress1+`"`)

	t.Run("solo", func(t *testing.T) {
		e.Node.Set("pool", `null`)
		e.Run(t, "nimiq-cli", "mining", "status", "-r", e.URL())
		e.checkNextLine(t, `^Mining:\s+false$`)
		e.checkNextLine(t, `^Hashrate:\s+52982.27 H/s$`)
		e.checkNextLine(t, `^Threads:\s+2$`)
		e.checkNextLine(t, `^Miner address:\s+`+testAddress1+`$`)
		e.checkNextLine(t, `^Pool:\s+none$`)
		e.checkEOF(t)
		e.Node.checkNotCalled(t, "poolConnectionState")
	})

	t.Run("pool", func(t *testing.T) {
		e.Node.Set("pool", `"us.sushipool.com:443"`)
		e.Node.Set("poolConnectionState", `0`)
		e.Node.Set("poolConfirmedBalance", `12000`)
		e.Run(t, "nimiq-cli", "mining", "status", "-r", e.URL())
		for i := 0; i < 4; i++ {
			e.getNextLine(t)
		}
		e.checkNextLine(t, `^Pool:\s+us.sushipool.com:443 \(connected\)$`)
		e.checkNextLine(t, `^Pool balance:\s+0.12 NIM$`)
		e.checkEOF(t)
	})

	t.Run("error", func(t *testing.T) {
		e.Node.Fail("hashrate", "Internal error")
		e.RunWithError(t, "nimiq-cli", "mining", "status", "-r", e.URL())
	})
}

func TestMiningStartStop(t *testing.T) {
	e := newExecutor(t)

	e.Node.Set("mining", `true`)
	e.Run(t, "nimiq-cli", "mining", "start", "-r", e.URL())
	e.checkNextLine(t, "^Mining: true$")
	e.Node.checkParams(t, "mining", `[true]`)

	e.Node.Set("mining", `false`)
	e.Run(t, "nimiq-cli", "mining", "stop", "-r", e.URL())
	e.checkNextLine(t, "^Mining: false$")
	e.Node.checkParams(t, "mining", `[false]`)
}

func TestMiningThreads(t *testing.T) {
	e := newExecutor(t)

	e.Node.Set("minerThreads", `2`)
	e.Run(t, "nimiq-cli", "mining", "threads", "-r", e.URL())
	e.checkNextLine(t, "^2$")
	e.Node.checkParams(t, "minerThreads", `[]`)

	e.Node.Set("minerThreads", `4`)
	e.Run(t, "nimiq-cli", "mining", "threads", "-r", e.URL(), "4")
	e.checkNextLine(t, "^4$")
	e.Node.checkParams(t, "minerThreads", `[4]`)

	e.RunWithError(t, "nimiq-cli", "mining", "threads", "-r", e.URL(), "0")
	e.RunWithError(t, "nimiq-cli", "mining", "threads", "-r", e.URL(), "1", "2")
}

func TestMiningPool(t *testing.T) {
	e := newExecutor(t)

	testCases := []struct {
		args   []string
		result string
		params string
		output string
	}{
		{nil, `"us.sushipool.com:443"`, `[]`, "us.sushipool.com:443"},
		{[]string{"eu.sushipool.com:443"}, `"eu.sushipool.com:443"`, `["eu.sushipool.com:443"]`, "eu.sushipool.com:443"},
		{[]string{"on"}, `"eu.sushipool.com:443"`, `[true]`, "eu.sushipool.com:443"},
		{[]string{"off"}, `null`, `[false]`, "none"},
	}
	for _, tc := range testCases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			e.Node.Set("pool", tc.result)
			e.Run(t, append([]string{"nimiq-cli", "mining", "pool", "-r", e.URL()}, tc.args...)...)
			e.Node.checkParams(t, "pool", tc.params)
			e.checkNextLine(t, "^"+tc.output+"$")
			e.checkEOF(t)
		})
	}
}

func TestMiningWork(t *testing.T) {
	e := newExecutor(t)
	const work = `{"data":"00015a7d47ddf5152a7d06a14ea291831c3fc7af20b88240c5ae839683021bcee3e279877b3de0da8ce8878bf225f6782a2663eff9a03478c15ba839fde9f1dc3dd9e5f0cd4dbc96a30130de130eb52d8160e9197e2ccf435d8d24a09b518a5e05da87a8658ed8c02531f66a7d31757b08c88d283654ed477e5e2fec21a7ca8449241e00d620000dc2fa5e763bda00000000","suffix":"11fad9806b8b4167517c162fa113c09606b44d24f8020804a0f756db085546ff585adfdedad9085d36527a8485b497728446c35b9b6c3db263c07dd0a1f487b1639aa37ff60ba3cf6ed8ab5146fee50a23ebd84ea37dca8c49b31e57d05c9e6c57f09a3b282b71ec2be66c1bc8268b5326bb222b11a0d0a4acd2a93c9e8a8713fe4383e9d5df3b1bf008c535281086b2bcc20e494393aea1475a5c3f13673de2cf7314d201b7cc7f01e0e6f0e07dd9249dc598f4e5ee8801f50000000000","target":503371296,"algorithm":"nimiq-argon2"}`

	e.Node.Set("getWork", work)
	e.Run(t, "nimiq-cli", "mining", "work", "-r", e.URL())
	e.Node.checkParams(t, "getWork", `[]`)
	require.JSONEq(t, work, e.Out.String())

	e.Run(t, "nimiq-cli", "mining", "work", "-r", e.URL(), "--address", "4f61c06feeb7971af6997125fe40d629c01af92f", "--extra-data", "abcd")
	e.Node.checkParams(t, "getWork", `["`+testAddress1+`","abcd"]`)

	e.RunWithUsageError(t, "nimiq-cli", "mining", "work", "-r", e.URL(), "--address", "NQ10")
}

func TestMiningTemplate(t *testing.T) {
	e := newExecutor(t)
	const template = `{"header":{"version":1,"prevHash":"` + testBlockHash + `","interlinkHash":"` + testBlockHash + `","accountsHash":"` + testBlockHash + `","nBits":503371296,"height":901883},` +
		`"interlink":"11","target":503371296,` +
		`"body":{"hash":"` + testBlockHash + `","minerAddr":"4f61c06feeb7971af6997125fe40d629c01af92f","extraData":"","transactions":[],"prunedAccounts":[],"merkleHashes":["` + testBlockHash + `"]}}`

	e.Node.Set("getBlockTemplate", template)
	e.Run(t, "nimiq-cli", "mining", "template", "-r", e.URL(), "--address", testAddress1)
	e.Node.checkParams(t, "getBlockTemplate", `["`+testAddress1+`",""]`)
	require.JSONEq(t, template, e.Out.String())
}

func TestMiningSubmit(t *testing.T) {
	e := newExecutor(t)

	e.Node.Set("submitBlock", `null`)
	e.Run(t, "nimiq-cli", "mining", "submit", "-r", e.URL(), "00000000")
	e.Node.checkParams(t, "submitBlock", `["00000000"]`)
	e.checkNextLine(t, "^Block submitted$")

	e.Node.Fail("submitBlock", "Invalid block")
	e.RunWithError(t, "nimiq-cli", "mining", "submit", "-r", e.URL(), "00000000")
	e.RunWithError(t, "nimiq-cli", "mining", "submit", "-r", e.URL())
}
