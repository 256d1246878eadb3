// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package esp01 talks to an ESP-01 (ESP8266) Wi-Fi module running the stock
// AT firmware over a serial port.
//
// The clock uses it to join a network and read the current time from the
// Date header of a plain HTTP response, without NTP support in the module.
//
// Command reference:
//
// https://docs.espressif.com/projects/esp-at/en/latest/esp32/AT_Command_Set/
package esp01
